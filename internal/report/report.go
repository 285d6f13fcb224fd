// Package report renders grouped contacts as CSV lines.
package report

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contacts-dedupe/internal/csvline"
	"github.com/sells-group/contacts-dedupe/internal/grouping"
	"github.com/sells-group/contacts-dedupe/internal/model"
)

// Mode selects the report layout.
type Mode string

const (
	// ModeCompact writes one row per group.
	ModeCompact Mode = "compact"
	// ModeExpanded writes one row per contact, flagging the group's primary.
	ModeExpanded Mode = "expanded"
)

const (
	compactHeader  = "Primary Contact Id,Primary Street,Primary City,Primary State,Primary Country,Group Contact Id(s),Group First Name(s),Group Last Name(s)"
	expandedHeader = "Is Primary?,Primary Contact Id,Primary Street,Primary City,Primary State,Primary Country,Group Contact Id(s),Group First Name(s),Group Last Name(s)"

	rollupSeparator = ", "
)

// ParseMode maps a config or flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCompact, ModeExpanded:
		return m, nil
	default:
		return "", eris.Errorf("report: unknown mode %q (want compact or expanded)", s)
	}
}

// Header returns the fixed header line for the mode.
func (m Mode) Header() string {
	if m == ModeCompact {
		return compactHeader
	}
	return expandedHeader
}

// Sink receives rendered lines in order.
type Sink interface {
	WriteLine(line string) error
}

// RowSink is implemented by sinks that store cells rather than text, such as
// spreadsheets. A Writer hands them unescaped cell values instead of calling
// WriteLine, so the text layout's escaping and trailing comma never reach them.
type RowSink interface {
	WriteRow(cells []string) error
}

// Options configures a Writer.
type Options struct {
	Mode Mode
	// Escape encodes street and roll-up fields. Defaults to csvline.Escape.
	Escape csvline.Escaper
	// LegacySeparators keeps the byte layout existing consumers expect: every
	// roll-up item is followed by ", " and expanded rows end with a comma.
	LegacySeparators bool
}

// Writer renders a grouping table into a Sink.
type Writer struct {
	sink Sink
	opts Options
}

// New returns a Writer for sink.
func New(sink Sink, opts Options) *Writer {
	if opts.Mode == "" {
		opts.Mode = ModeExpanded
	}
	if opts.Escape == nil {
		opts.Escape = csvline.Escape
	}
	return &Writer{sink: sink, opts: opts}
}

// Mode returns the layout the writer renders.
func (w *Writer) Mode() Mode {
	return w.opts.Mode
}

// Rollup holds the group-level summary columns, unescaped.
type Rollup struct {
	ContactIDs string
	FirstNames string
	LastNames  string
}

// cell is one output column. Escaped cells go through Options.Escape when
// rendered as text.
type cell struct {
	value   string
	escaped bool
}

// WriteTable writes the header followed by every group in table order.
// It returns the number of data rows written.
func (w *Writer) WriteTable(t *grouping.Table) (int, error) {
	if err := w.WriteHeader(); err != nil {
		return 0, err
	}
	rows := 0
	for _, g := range t.Groups() {
		n, err := w.WriteGroup(g)
		rows += n
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// WriteHeader writes the header line for the configured mode.
func (w *Writer) WriteHeader() error {
	var err error
	if rs, ok := w.sink.(RowSink); ok {
		err = rs.WriteRow(strings.Split(w.opts.Mode.Header(), ","))
	} else {
		err = w.sink.WriteLine(w.opts.Mode.Header())
	}
	if err != nil {
		return eris.Wrap(err, "report: write header")
	}
	return nil
}

// WriteGroup writes the rows for one group and returns how many were written.
func (w *Writer) WriteGroup(g *grouping.Group) (int, error) {
	rollup := w.BuildRollup(g)

	if w.opts.Mode == ModeCompact {
		if err := w.emit(compactRow(g.Primary(), rollup)); err != nil {
			return 0, eris.Wrapf(err, "report: write group %s", g.Primary().ContactID)
		}
		return 1, nil
	}

	for i, c := range g.Members() {
		if err := w.emit(expandedRow(c, i == 0, rollup)); err != nil {
			return i, eris.Wrapf(err, "report: write contact %s", c.ContactID)
		}
	}
	return g.Len(), nil
}

// BuildRollup joins the group's ids, first names and last names in member order.
func (w *Writer) BuildRollup(g *grouping.Group) Rollup {
	members := g.Members()
	ids := make([]string, len(members))
	firsts := make([]string, len(members))
	lasts := make([]string, len(members))
	for i, c := range members {
		ids[i] = c.ContactID
		firsts[i] = c.FirstName
		lasts[i] = c.LastName
	}
	return Rollup{
		ContactIDs: w.join(ids),
		FirstNames: w.join(firsts),
		LastNames:  w.join(lasts),
	}
}

func (w *Writer) join(items []string) string {
	joined := strings.Join(items, rollupSeparator)
	if w.opts.LegacySeparators && len(items) > 0 {
		joined += rollupSeparator
	}
	return joined
}

// emit hands row to the sink, as cells when the sink takes them and as an
// escaped CSV line otherwise.
func (w *Writer) emit(row []cell) error {
	if rs, ok := w.sink.(RowSink); ok {
		values := make([]string, len(row))
		for i, c := range row {
			values[i] = c.value
		}
		return rs.WriteRow(values)
	}
	return w.sink.WriteLine(w.render(row))
}

// render joins row into one CSV line.
func (w *Writer) render(row []cell) string {
	parts := make([]string, len(row))
	for i, c := range row {
		if c.escaped {
			parts[i] = w.opts.Escape(c.value)
		} else {
			parts[i] = c.value
		}
	}
	line := strings.Join(parts, ",")
	if w.opts.LegacySeparators && w.opts.Mode == ModeExpanded {
		line += ","
	}
	return line
}

func compactRow(primary model.Contact, r Rollup) []cell {
	return []cell{
		{value: primary.ContactID},
		{value: primary.Street, escaped: true},
		{value: primary.City},
		{value: primary.State},
		{value: primary.Country},
		{value: r.ContactIDs, escaped: true},
		{value: r.FirstNames, escaped: true},
		{value: r.LastNames, escaped: true},
	}
}

func expandedRow(c model.Contact, isPrimary bool, r Rollup) []cell {
	flag := "N"
	if isPrimary {
		flag = "Y"
	}
	return []cell{
		{value: flag},
		{value: c.ContactID},
		{value: c.Street, escaped: true},
		{value: c.City},
		{value: c.State},
		{value: c.Country},
		{value: r.ContactIDs, escaped: true},
		{value: r.FirstNames, escaped: true},
		{value: r.LastNames, escaped: true},
	}
}
