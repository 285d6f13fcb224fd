package lineio

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/contacts-dedupe/internal/csvline"
)

// Sink accepts rendered lines in order. Close flushes buffered output and
// releases whatever the sink opened. Discard releases it without writing
// anything still buffered and leaves any existing output file untouched.
type Sink interface {
	WriteLine(line string) error
	Close() error
	Discard() error
}

// WriterSink buffers lines onto an io.Writer, one per "\n".
type WriterSink struct {
	w      *bufio.Writer
	file   *os.File
	target string // destination renamed into place on Close
}

// NewWriterSink wraps w. Closing the sink flushes but does not close w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

// CreateFileSink writes lines to a temporary file next to path. Close renames
// it over path; until then an existing file at path is left as it was.
func CreateFileSink(path string) (*WriterSink, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, eris.Wrap(err, "lineio: create output file")
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, eris.Wrap(err, "lineio: create output file")
	}
	return &WriterSink{w: bufio.NewWriter(f), file: f, target: path}, nil
}

// WriteLine writes line followed by a newline.
func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return eris.Wrap(err, "lineio: write line")
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return eris.Wrap(err, "lineio: write line")
	}
	return nil
}

// Close flushes buffered lines. For a file sink it closes the temporary file
// and renames it over the destination.
func (s *WriterSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.removeTemp()
		return eris.Wrap(err, "lineio: flush")
	}
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		_ = os.Remove(s.file.Name())
		return eris.Wrap(err, "lineio: close output file")
	}
	if err := os.Rename(s.file.Name(), s.target); err != nil {
		_ = os.Remove(s.file.Name())
		return eris.Wrapf(err, "lineio: replace %s", s.target)
	}
	return nil
}

// Discard drops buffered lines and removes the temporary file, if any.
func (s *WriterSink) Discard() error {
	s.w.Reset(io.Discard)
	if s.file == nil {
		return nil
	}
	_ = s.file.Close()
	if err := os.Remove(s.file.Name()); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "lineio: remove temporary output file")
	}
	return nil
}

func (s *WriterSink) removeTemp() {
	if s.file != nil {
		_ = s.file.Close()
		_ = os.Remove(s.file.Name())
	}
}

// XLSXSink writes rows to a single spreadsheet sheet. WriteRow stores cells
// as given; WriteLine splits a CSV line back into cells with csvline.Tokenize.
type XLSXSink struct {
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

// NewXLSXSink starts a workbook with one sheet. Nothing is written to path
// until Close.
func NewXLSXSink(path, sheetName string) (*XLSXSink, error) {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: add sheet %q", sheetName)
	}
	return &XLSXSink{path: path, file: f, sheet: sheet}, nil
}

// WriteRow appends one row with one cell per value.
func (s *XLSXSink) WriteRow(cells []string) error {
	row := s.sheet.AddRow()
	for _, value := range cells {
		row.AddCell().SetString(value)
	}
	return nil
}

// WriteLine appends one row parsed from a CSV line.
func (s *XLSXSink) WriteLine(line string) error {
	return s.WriteRow(csvline.Tokenize(line))
}

// Close saves the workbook to a temporary file and renames it over path.
func (s *XLSXSink) Close() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "xlsx: create workbook file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := s.file.Write(tmp); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "xlsx: save workbook")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return eris.Wrapf(err, "xlsx: replace %s", s.path)
	}
	return nil
}

// Discard drops the workbook without saving it.
func (s *XLSXSink) Discard() error {
	s.file = nil
	s.sheet = nil
	return nil
}
