package log

import (
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/myboxcli/mybox/fs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFlags(t *testing.T) {
	flags, err := logFlags("date,time")
	require.NoError(t, err)
	assert.Equal(t, stdlog.Ldate|stdlog.Ltime, flags)

	flags, err = logFlags("")
	require.NoError(t, err)
	assert.Equal(t, 0, flags)

	flags, err = logFlags("shortfile,UTC,microseconds")
	require.NoError(t, err)
	assert.Equal(t, stdlog.Lshortfile|stdlog.LUTC|stdlog.Lmicroseconds, flags)

	_, err = logFlags("date,potato")
	assert.Error(t, err)
}

func TestLogrusLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, logrusLevel(fs.LogLevelDebug))
	assert.Equal(t, logrus.InfoLevel, logrusLevel(fs.LogLevelInfo))
	assert.Equal(t, logrus.WarnLevel, logrusLevel(fs.LogLevelNotice))
	assert.Equal(t, logrus.ErrorLevel, logrusLevel(fs.LogLevelError))
}

func TestInitLoggingFile(t *testing.T) {
	oldOpt, oldJSON, oldLevel := Opt, fs.Config.UseJSONLog, fs.Config.LogLevel
	defer func() {
		Opt, fs.Config.UseJSONLog, fs.Config.LogLevel = oldOpt, oldJSON, oldLevel
		stdlog.SetOutput(os.Stderr)
		stdlog.SetFlags(stdlog.LstdFlags)
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	}()

	Opt.File = filepath.Join(t.TempDir(), "mybox.log")
	Opt.Format = ""
	fs.Config.UseJSONLog = true
	fs.Config.LogLevel = fs.LogLevelDebug
	closeLog, err := InitLogging()
	require.NoError(t, err)
	assert.True(t, Redirected())

	fs.Debugf(nil, "hello %s%v", "file", fs.LogValueHide("key", "value"))
	require.NoError(t, closeLog())

	data, err := os.ReadFile(Opt.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
	assert.Contains(t, string(data), `"key":"value"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestInitLoggingBadFormat(t *testing.T) {
	oldOpt := Opt
	defer func() { Opt = oldOpt }()
	Opt.Format = "potato"
	_, err := InitLogging()
	assert.Error(t, err)
}
