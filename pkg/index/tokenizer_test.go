package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		tokens := Tokenize("How does the Auth-Service work?!")
		assert.Equal(t, []string{"auth-service", "work"}, tokens)
	})

	t.Run("drops single character tokens", func(t *testing.T) {
		tokens := Tokenize("x y queue")
		assert.Equal(t, []string{"queue"}, tokens)
	})

	t.Run("keeps digits underscores and hyphens", func(t *testing.T) {
		tokens := Tokenize("v2 worker_pool rate-limiter")
		assert.Equal(t, []string{"v2", "worker_pool", "rate-limiter"}, tokens)
	})

	t.Run("stopword only input yields nothing", func(t *testing.T) {
		assert.Empty(t, Tokenize("how does it do that"))
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		assert.Empty(t, Tokenize(""))
		assert.Empty(t, Tokenize("   "))
	})
}
