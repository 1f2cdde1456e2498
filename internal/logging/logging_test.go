package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduction(t *testing.T) {
	logger, err := New("info", false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(0))
}

func TestNewDevelopmentDebugLevel(t *testing.T) {
	logger, err := New("debug", true)
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	logger, err := New("nonsense", false)
	require.NoError(t, err)
	require.NotNil(t, logger)
}
