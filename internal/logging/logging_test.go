package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", &buf)
	require.NoError(t, err)

	logger.WithField("component", "test").Info("hello")
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "component=test")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewDefaultsToWarn(t *testing.T) {
	logger, err := New("", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Warn("dropped") })
}
