package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogPath(t *testing.T) {
	t.Parallel()

	p := DefaultLogPath()
	assert.Equal(t, DefaultLogName, filepath.Base(p))
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, p, DefaultLogPath())
}
