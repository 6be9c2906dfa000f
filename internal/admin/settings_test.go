package admin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestManager(t *testing.T) *SettingsManager {
	t.Helper()
	return NewSettingsManager(filepath.Join(t.TempDir(), "assistant.yaml"), time.Minute)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	m := newTestManager(t)

	s, err := m.Load()
	assert.NoError(t, err)
	assert.Equal(t, &Settings{}, s)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	m := newTestManager(t)

	want := &Settings{
		SystemPreamble: "Answer in one paragraph.",
		DefaultModel:   "llama3",
		MaxComponents:  4,
		MaxTopics:      2,
	}
	assert.NoError(t, m.Save(want))

	got, err := m.Load()
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveBustsCache(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Load()
	assert.NoError(t, err)
	assert.Empty(t, first.DefaultModel)

	assert.NoError(t, m.Save(&Settings{DefaultModel: "qwen2.5"}))

	second, err := m.Load()
	assert.NoError(t, err)
	assert.Equal(t, "qwen2.5", second.DefaultModel, "stale cached settings survive a save")
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0644))

	m := NewSettingsManager(path, time.Minute)
	_, err := m.Load()
	assert.Error(t, err)
}
