package dedupe

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/contacts-dedupe/internal/grouping"
	"github.com/sells-group/contacts-dedupe/internal/report"
)

// Summary describes a finished run.
type Summary struct {
	Input          string      `yaml:"input"`
	SkippedHead    bool        `yaml:"skipped_header"`
	Mode           report.Mode `yaml:"mode"`
	Rows           int         `yaml:"rows"`
	grouping.Stats `yaml:",inline"`
}

// WriteYAML writes the summary to path.
func (s *Summary) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return eris.Wrap(err, "dedupe: marshal summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "dedupe: write summary")
	}
	return nil
}
