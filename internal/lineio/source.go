// Package lineio reads input files as lines and writes report lines to stdout, text files or XLSX workbooks.
package lineio

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrInputNotFound is returned when the input path cannot be read.
	ErrInputNotFound = eris.New("input not found")
	// ErrEncoding is returned for undecodable bytes or an unknown charset.
	ErrEncoding = eris.New("input encoding")
)

const byteOrderMark = "\uFEFF"

// ReadLines reads the whole file at path, decodes it from the named charset
// and splits it into lines. Any WHATWG label works ("utf-8", "windows-1252",
// "latin1", "shift_jis"); the empty string means UTF-8. Line endings may be
// "\n" or "\r\n", and a final newline does not add an empty line.
func ReadLines(path, charset string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrInputNotFound, "lineio: read %s: %v", path, err)
	}

	text, err := Decode(data, charset)
	if err != nil {
		return nil, eris.Wrapf(err, "lineio: decode %s", path)
	}

	return SplitLines(text), nil
}

// Decode converts data from charset to a UTF-8 string. Input in any UTF-8
// label must be valid; a leading byte order mark is dropped.
func Decode(data []byte, charset string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(charset))
	if label == "" {
		label = "utf-8"
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", eris.Wrapf(ErrEncoding, "unsupported charset %q", charset)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		if !utf8.Valid(data) {
			return "", eris.Wrap(ErrEncoding, "invalid utf-8")
		}
		return strings.TrimPrefix(string(data), byteOrderMark), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", eris.Wrapf(ErrEncoding, "decode %s: %v", charset, err)
	}
	return strings.TrimPrefix(string(out), byteOrderMark), nil
}

// SplitLines splits text on "\n", trimming a trailing "\r" from each line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
