package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	err := Init("loud", false)
	assert.Error(t, err)
	assert.Same(t, prev, Log)
}

func TestInitSetsLevel(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	require.NoError(t, Init("warn", true))
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))
}

func TestOr(t *testing.T) {
	l := zap.NewExample()
	assert.Same(t, l, Or(l))
	assert.Same(t, Log, Or(nil))
}
