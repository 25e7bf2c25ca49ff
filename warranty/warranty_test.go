package warranty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCodeShape(t *testing.T) {
	code := NewCode()
	parts := strings.Split(code, "-")

	assert.Len(t, parts, 3)
	assert.Equal(t, "WR", parts[0])
	assert.Len(t, parts[1], 6)
	assert.Len(t, parts[2], 4)
	assert.Equal(t, code, strings.ToUpper(code))
}

func TestNewCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewCode()
		assert.False(t, seen[code], "codes should not repeat within a small sample")
		seen[code] = true
	}
}
