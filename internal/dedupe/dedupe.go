// Package dedupe runs one batch: read the contact file, group contacts by
// mailing address and render the grouped report.
package dedupe

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contacts-dedupe/internal/grouping"
	"github.com/sells-group/contacts-dedupe/internal/lineio"
	"github.com/sells-group/contacts-dedupe/internal/model"
	"github.com/sells-group/contacts-dedupe/internal/report"
)

// contextCheckInterval is how often, in lines, parsing checks for cancellation.
const contextCheckInterval = 1000

// Options configures a Run.
type Options struct {
	InputPath     string
	Encoding      string
	SkipHeader    bool
	StrictColumns bool
	Report        report.Options
}

// Run reads opts.InputPath, groups its contacts and writes the report to
// sink. Nothing reaches sink unless the whole file was read and parsed.
func Run(ctx context.Context, opts Options, sink report.Sink) (*Summary, error) {
	log := zap.L().With(zap.String("input", opts.InputPath))

	lines, err := lineio.ReadLines(opts.InputPath, opts.Encoding)
	if err != nil {
		return nil, eris.Wrap(err, "dedupe: read input")
	}
	log.Debug("read input", zap.Int("lines", len(lines)))

	first := 1
	if opts.SkipHeader && len(lines) > 0 {
		lines = lines[1:]
		first = 2
	}

	contacts, err := ParseContacts(ctx, lines, first, model.ParseOptions{StrictColumns: opts.StrictColumns})
	if err != nil {
		return nil, err
	}

	table := grouping.Build(contacts, model.NewAddressKeyer())
	stats := table.Stats()
	log.Info("grouped contacts",
		zap.Int("records", stats.Records),
		zap.Int("groups", stats.Groups),
		zap.Int("shared_groups", stats.SharedGroups),
		zap.Int("unkeyed", stats.Unkeyed),
	)

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "dedupe: context cancelled")
	}

	w := report.New(sink, opts.Report)
	rows, err := w.WriteTable(table)
	if err != nil {
		return nil, eris.Wrap(err, "dedupe: write report")
	}

	return &Summary{
		Input:       opts.InputPath,
		SkippedHead: first == 2,
		Mode:        w.Mode(),
		Rows:        rows,
		Stats:       stats,
	}, nil
}

// ParseContacts parses lines in order. firstLine is the 1-based line number of
// lines[0]. The first error aborts the batch.
func ParseContacts(ctx context.Context, lines []string, firstLine int, opts model.ParseOptions) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0, len(lines))
	for i, line := range lines {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "dedupe: context cancelled")
			}
		}
		c, err := model.ParseContact(line, firstLine+i, opts)
		if err != nil {
			return nil, eris.Wrap(err, "dedupe: parse contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}
