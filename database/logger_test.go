package database_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/membersearch/database"
	"github.com/tomoncle/membersearch/utils"
)

func TestDefaultLoggerReportsCallSite(t *testing.T) {
	var buf bytes.Buffer
	lg := utils.NewLogger("DATABASE_TEST")
	lg.SetOutput(&buf)
	lg.SetLevel(logrus.DebugLevel)
	lg.SetFormatter(&utils.Log4jColorFormatter{LoggerName: "DATABASE_TEST", NameWidth: 13})

	database.NewDefaultLogger(lg).Info("Migrations completed", "tables", 2)

	out := buf.String()
	assert.Contains(t, out, " logger_test.go:")
	assert.NotContains(t, out, " logger.go:")
	assert.Contains(t, out, "tables=2")
	assert.NotContains(t, out, "caller=")
}

func TestDefaultLoggerCallSiteInJSON(t *testing.T) {
	var buf bytes.Buffer
	lg := utils.NewLogger("DATABASE_JSON_TEST")
	lg.SetOutput(&buf)
	lg.SetLevel(logrus.DebugLevel)
	lg.SetFormatter(&utils.JSONLogFormatter{LoggerName: "DATABASE_JSON_TEST"})

	database.NewDefaultLogger(lg).Warn("Slow query", "duration", "2s")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Regexp(t, `^logger_test\.go:\d+$`, rec["caller"])
	assert.Equal(t, map[string]interface{}{"duration": "2s"}, rec["fields"])
}
