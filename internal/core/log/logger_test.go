package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)

	logger := NewLogrusLogger(l)
	logger.WithField("session_id", "abc").Info("frame forwarded")

	out := buf.String()
	assert.Contains(t, out, "session_id")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "frame forwarded")
}

func TestNopLogger_Silent(t *testing.T) {
	logger := NewNopLogger()
	// Must not panic regardless of arguments.
	logger.Debug("x")
	logger.Infof("y %d", 1)
	logger.WithField("k", "v").WithError(assert.AnError).Error("z")
}

func TestInit_InvalidLevel(t *testing.T) {
	err := Init(&Config{Level: "nonsense"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid log level"))
}

func TestInit_NilConfig(t *testing.T) {
	assert.NoError(t, Init(nil))
}

type recordingT struct {
	lines []string
}

func (r *recordingT) Log(args ...interface{})                 { r.lines = append(r.lines, "log") }
func (r *recordingT) Logf(format string, args ...interface{}) { r.lines = append(r.lines, format) }

func TestTestLogger_WritesToT(t *testing.T) {
	rec := &recordingT{}
	logger := NewTestLogger(rec)
	logger.Info("hello")
	logger.Warnf("count=%d", 2)
	require.Len(t, rec.lines, 2)
}
