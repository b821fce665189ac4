package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_Formats(t *testing.T) {
	jsonLog := New("debug", "json")
	assert.IsType(t, &logrus.JSONFormatter{}, jsonLog.Formatter)
	assert.Equal(t, logrus.DebugLevel, jsonLog.GetLevel())

	textLog := New("warn", "TEXT")
	assert.IsType(t, &logrus.TextFormatter{}, textLog.Formatter)
	assert.Equal(t, logrus.WarnLevel, textLog.GetLevel())
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	log := New("loud", "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
