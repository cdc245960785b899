package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	assert.NotNil(t, L())

	require.NoError(t, Init(true))
	assert.True(t, L().Core().Enabled(-1), "development logger enables debug")

	require.NoError(t, Init(false))
	assert.False(t, L().Core().Enabled(-1), "production logger starts at info")
	Sync()
}
