package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/j3859/Africa-lens-bot/internal/content"
)

// ScheduleSlot gives the selector a hint for a given UTC hour. Empty
// fields mean no preference.
type ScheduleSlot struct {
	HourUTC int    `yaml:"hour_utc"`
	Niche   string `yaml:"niche"`
	Country string `yaml:"country_code"`
}

// Catalog is the YAML source list plus the posting schedule hints.
type Catalog struct {
	Sources  []content.Source `yaml:"sources"`
	Schedule []ScheduleSlot   `yaml:"schedule"`
}

// LoadCatalog reads the source catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources config: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}

	if len(cat.Sources) == 0 {
		return nil, fmt.Errorf("sources config %s has no sources", path)
	}

	for i := range cat.Sources {
		s := &cat.Sources[i]
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source %d: name and url are required", i)
		}
		if s.ScrapeType == "" {
			s.ScrapeType = "generic"
		}
		if s.Language == "" {
			s.Language = content.LangFrench
		}
		if s.Priority == 0 {
			s.Priority = 2
		}
	}

	return &cat, nil
}

// SlotFor returns the schedule hint for the given UTC hour, if any.
func (c *Catalog) SlotFor(hour int) (ScheduleSlot, bool) {
	for _, s := range c.Schedule {
		if s.HourUTC == hour {
			return s, true
		}
	}
	return ScheduleSlot{}, false
}
