package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type closuresFile struct {
	Closures []string `yaml:"closures"`
}

// LoadExtraClosures reads company-specific closure dates from a YAML
// file of the form:
//
//	closures:
//	  - 2021-08-16
//	  - 2021-12-27
func LoadExtraClosures(path string) ([]time.Time, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading closures file: %w", err)
	}
	var f closuresFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing closures file: %w", err)
	}
	dates := make([]time.Time, 0, len(f.Closures))
	for _, s := range f.Closures {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("invalid closure date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
