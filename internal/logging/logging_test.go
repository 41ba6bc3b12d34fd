package logging

import (
	"testing"

	assert "github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger, err := New(false)
	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))

	logger, err = New(true)
	assert.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
