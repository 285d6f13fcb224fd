package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contacts-dedupe/internal/config"
	"github.com/sells-group/contacts-dedupe/internal/csvline"
	"github.com/sells-group/contacts-dedupe/internal/dedupe"
	"github.com/sells-group/contacts-dedupe/internal/lineio"
	"github.com/sells-group/contacts-dedupe/internal/report"
)

var (
	dedupeMode          string
	dedupeOutput        string
	dedupeFormat        string
	dedupeEscape        string
	dedupeEncoding      string
	dedupeSummary       string
	dedupeSkipHeader    bool
	dedupeStrictColumns bool
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&dedupeMode, "mode", "", "report layout: compact or expanded (default from config: expanded)")
	f.StringVar(&dedupeOutput, "output", "", "write the report to this file (default: stdout)")
	f.StringVar(&dedupeFormat, "format", "", "output format: csv or xlsx (xlsx requires --output)")
	f.StringVar(&dedupeEscape, "escape", "", "field escaping: legacy or strict")
	f.StringVar(&dedupeEncoding, "encoding", "", "input charset, e.g. utf-8, windows-1252")
	f.StringVar(&dedupeSummary, "summary", "", "write a YAML run summary to this file")
	f.BoolVar(&dedupeSkipHeader, "skip-header", false, "treat the first input line as a header instead of data")
	f.BoolVar(&dedupeStrictColumns, "strict-columns", false, "fail on rows with fewer than 10 columns")
}

// applyFlags overrides config values with the flags the user set.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("mode") {
		c.Report.Mode = dedupeMode
	}
	if f.Changed("output") {
		c.Report.Output = dedupeOutput
	}
	if f.Changed("format") {
		c.Report.Format = dedupeFormat
	}
	if f.Changed("escape") {
		c.Report.Escape = dedupeEscape
	}
	if f.Changed("encoding") {
		c.Input.Encoding = dedupeEncoding
	}
	if f.Changed("summary") {
		c.Report.SummaryPath = dedupeSummary
	}
	if f.Changed("skip-header") {
		c.Input.SkipHeader = dedupeSkipHeader
	}
	if f.Changed("strict-columns") {
		c.Input.StrictColumns = dedupeStrictColumns
	}
}

func runDedupe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := buildOptions(cfg, args[0])
	if err != nil {
		return err
	}

	sink, err := openSink(cfg.Report)
	if err != nil {
		return err
	}

	summary, err := dedupe.Run(ctx, opts, sink)
	if err != nil {
		if discardErr := sink.Discard(); discardErr != nil {
			zap.L().Warn("dedupe: discard output", zap.Error(discardErr))
		}
		return err
	}
	if err := sink.Close(); err != nil {
		return eris.Wrap(err, "dedupe: close output")
	}

	zap.L().Info("dedupe complete",
		zap.String("mode", string(summary.Mode)),
		zap.Int("records", summary.Records),
		zap.Int("groups", summary.Groups),
		zap.Int("rows", summary.Rows),
		zap.String("output", outputName(cfg.Report)),
	)

	if cfg.Report.SummaryPath != "" {
		if err := summary.WriteYAML(cfg.Report.SummaryPath); err != nil {
			return err
		}
		zap.L().Info("summary written", zap.String("path", cfg.Report.SummaryPath))
	}

	return nil
}

// buildOptions turns validated config into run options.
func buildOptions(c *config.Config, input string) (dedupe.Options, error) {
	mode, err := report.ParseMode(c.Report.Mode)
	if err != nil {
		return dedupe.Options{}, err
	}
	escape, err := csvline.ParseEscaper(c.Report.Escape)
	if err != nil {
		return dedupe.Options{}, err
	}
	return dedupe.Options{
		InputPath:     input,
		Encoding:      c.Input.Encoding,
		SkipHeader:    c.Input.SkipHeader,
		StrictColumns: c.Input.StrictColumns,
		Report: report.Options{
			Mode:             mode,
			Escape:           escape,
			LegacySeparators: c.Report.LegacySeparators,
		},
	}, nil
}

// openSink returns the configured output: stdout, a text file or a workbook.
func openSink(rc config.ReportConfig) (lineio.Sink, error) {
	if strings.EqualFold(strings.TrimSpace(rc.Format), "xlsx") {
		return lineio.NewXLSXSink(rc.Output, rc.SheetName)
	}
	if rc.Output != "" {
		return lineio.CreateFileSink(rc.Output)
	}
	return lineio.NewWriterSink(os.Stdout), nil
}

func outputName(rc config.ReportConfig) string {
	if rc.Output == "" {
		return "stdout"
	}
	return rc.Output
}
