package utils

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("nonsense"))
}

func TestNewLoggerIsRegisteredOnce(t *testing.T) {
	a := NewLogger("UTILS_TEST")
	b := NewLogger("UTILS_TEST")
	assert.Same(t, a, b)

	require.True(t, SetLoggerLevel("UTILS_TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("UTILS_MISSING", "error"))
}

func TestJSONLogFormatterLiftsRequestFields(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "request",
		Data: logrus.Fields{
			"req_method":   "GET",
			"req_uri":      "/v1/members?ageGoe=20",
			"status_code":  200,
			"latency_time": "1.2ms",
			"client_ip":    "127.0.0.1",
			"error":        errors.New("boom"),
		},
	}

	out, err := (&JSONLogFormatter{LoggerName: "API"}).Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "2025-01-02 03:04:05.000", rec["time"])
	assert.Equal(t, "API", rec["model"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/v1/members?ageGoe=20", rec["path"])
	assert.Equal(t, float64(200), rec["status_code"])
	assert.Equal(t, map[string]interface{}{"error": "boom"}, rec["fields"])
}

func TestLog4jColorFormatterAppendsFields(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "slow",
		Data:    logrus.Fields{"b": 2, "a": 1},
	}
	out, err := (&Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10}).Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "slow a=1 b=2\n")
	assert.Contains(t, string(out), "WARNING")
}
