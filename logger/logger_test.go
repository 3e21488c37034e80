package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNamedWithNilBase(t *testing.T) {
	l := Named(nil, "inventory")
	require.NotNil(t, l)
	l.Info("dropped")
}

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		Must(nil, assert.AnError)
	})
	assert.NotPanics(t, func() {
		Must(zap.NewNop(), nil)
	})
}

func TestGormLogger(t *testing.T) {
	assert.NotNil(t, Gorm(zap.NewNop()))
}
