package admin

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

// Settings is the human-edited assistant configuration file. Everything is
// optional; zero values fall back to server defaults.
type Settings struct {
	SystemPreamble string `yaml:"system_preamble" json:"system_preamble"`
	DefaultModel   string `yaml:"default_model" json:"default_model"`
	MaxComponents  int    `yaml:"max_components" json:"max_components" validate:"omitempty,min=1,max=20"`
	MaxTopics      int    `yaml:"max_topics" json:"max_topics" validate:"omitempty,min=0,max=10"`
}

const settingsCacheKey = "assistant_settings"

// SettingsManager reads and writes the settings file, caching parses briefly
// so the ask path does not hit the disk on every request.
type SettingsManager struct {
	path  string
	cache *cache.Cache
}

func NewSettingsManager(path string, ttl time.Duration) *SettingsManager {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SettingsManager{
		path:  path,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Load returns the current settings. A missing file yields defaults; a
// malformed file is an error so admin edits do not fail silently.
func (m *SettingsManager) Load() (*Settings, error) {
	if x, found := m.cache.Get(settingsCacheKey); found {
		return x.(*Settings), nil
	}

	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			s := &Settings{}
			m.cache.Set(settingsCacheKey, s, cache.DefaultExpiration)
			return s, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	m.cache.Set(settingsCacheKey, &s, cache.DefaultExpiration)
	return &s, nil
}

// Save rewrites the settings file and drops the cached copy.
func (m *SettingsManager) Save(s *Settings) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	m.cache.Delete(settingsCacheKey)
	return nil
}
