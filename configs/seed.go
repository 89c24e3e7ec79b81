package config

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

type SeedBrand struct {
	Name      string           `yaml:"name"`
	Website   string           `yaml:"website"`
	Palette   []string         `yaml:"palette"`
	VoiceCard models.VoiceCard `yaml:"voiceCard"`
}

type SeedPillar struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc"`
}

type SeedRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type Seed struct {
	Brand         SeedBrand                     `yaml:"brand"`
	Pillars       []SeedPillar                  `yaml:"pillars"`
	OnboardWindow SeedRange                     `yaml:"onboardWindow"`
	DemoWindows   map[models.Platform]SeedRange `yaml:"demoWindows"`
	DemoTimeZone  string                        `yaml:"demoTimeZone"`
}

// LoadSeed parses the embedded seed, or the file at path when one is given.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(seed.Pillars) == 0 {
		return nil, fmt.Errorf("seed must define at least one pillar")
	}
	for _, p := range models.Platforms {
		if _, ok := seed.DemoWindows[p]; !ok {
			return nil, fmt.Errorf("seed is missing a demo window for %s", p)
		}
	}
	if seed.DemoTimeZone == "" {
		seed.DemoTimeZone = "UTC"
	}
	return &seed, nil
}
