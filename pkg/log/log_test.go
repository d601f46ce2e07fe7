package log

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  logrus.Level
	}{
		{"", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"WARN", logrus.WarnLevel},
		{"verbose", logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFromEnv(tt.value))
		})
	}
}

func TestErrorWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	t.Run("reuses request id", func(t *testing.T) {
		got := ErrorWithTraceID(l, Fields{"request_id": "01HXREQ"}, "boom")
		assert.Equal(t, "01HXREQ", got)
		assert.Contains(t, buf.String(), `"trace_id":"01HXREQ"`)
	})

	t.Run("generates uuid", func(t *testing.T) {
		got := ErrorWithTraceID(l, Fields{"request_id": "unknown"}, "boom")
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	})
}
