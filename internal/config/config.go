package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// InputConfig configures how the contact file is read.
type InputConfig struct {
	Encoding      string `yaml:"encoding" mapstructure:"encoding"`
	SkipHeader    bool   `yaml:"skip_header" mapstructure:"skip_header"`
	StrictColumns bool   `yaml:"strict_columns" mapstructure:"strict_columns"`
}

// ReportConfig configures the grouped report.
type ReportConfig struct {
	Mode             string `yaml:"mode" mapstructure:"mode"`     // compact | expanded
	Escape           string `yaml:"escape" mapstructure:"escape"` // legacy | strict
	LegacySeparators bool   `yaml:"legacy_separators" mapstructure:"legacy_separators"`
	Format           string `yaml:"format" mapstructure:"format"` // csv | xlsx
	Output           string `yaml:"output" mapstructure:"output"` // empty = stdout
	SheetName        string `yaml:"sheet_name" mapstructure:"sheet_name"`
	SummaryPath      string `yaml:"summary_path" mapstructure:"summary_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEDUPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.encoding", "utf-8")
	v.SetDefault("input.skip_header", false)
	v.SetDefault("input.strict_columns", false)
	v.SetDefault("report.mode", "expanded")
	v.SetDefault("report.escape", "legacy")
	v.SetDefault("report.legacy_separators", true)
	v.SetDefault("report.format", "csv")
	v.SetDefault("report.output", "")
	v.SetDefault("report.sheet_name", "Groups")
	v.SetDefault("report.summary_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger. Logs go to stderr so report
// rows on stdout stay clean.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks the report and input settings before a run.
func (c *Config) Validate() error {
	var errs []string

	switch normalize(c.Report.Mode) {
	case "compact", "expanded":
	default:
		errs = append(errs, "report.mode must be compact or expanded")
	}
	switch normalize(c.Report.Escape) {
	case "", "legacy", "strict":
	default:
		errs = append(errs, "report.escape must be legacy or strict")
	}
	switch normalize(c.Report.Format) {
	case "csv":
	case "xlsx":
		if c.Report.Output == "" {
			errs = append(errs, "report.output is required for xlsx format")
		}
	default:
		errs = append(errs, "report.format must be csv or xlsx")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// normalize folds an enum-like setting the same way the report parsers do.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
