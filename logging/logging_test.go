package logging_test

import (
	"testing"

	"github.com/go-surena/surena/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewParsesLevel(t *testing.T) {
	l := logging.New(logging.Config{Level: "debug", Format: "text"})
	assert.Equal(t, logrus.DebugLevel, l.Logger.GetLevel())
}

func TestNewFallsBackToInfoOnBadLevel(t *testing.T) {
	l := logging.New(logging.Config{Level: "not-a-level", Format: "text"})
	assert.Equal(t, logrus.InfoLevel, l.Logger.GetLevel())
}

func TestNewJSONFormatter(t *testing.T) {
	l := logging.New(logging.Config{Level: "info", Format: "json"})
	_, ok := l.Logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNewDefault(t *testing.T) {
	l := logging.NewDefault("engine")
	assert.Equal(t, logrus.InfoLevel, l.Logger.GetLevel())
}
