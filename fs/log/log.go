// Package log sets up the log output for mybox
package log

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/myboxcli/mybox/fs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options contains options for controlling the logging
type Options struct {
	File   string // Log everything to this file
	Format string // Comma separated list of log format options
}

// Opt is the options for the logger
var Opt = Options{
	Format: "date,time",
}

// logFlags turns the comma separated Format into log flags
func logFlags(format string) (flags int, err error) {
	for _, opt := range strings.Split(format, ",") {
		switch opt {
		case "date":
			flags |= log.Ldate
		case "time":
			flags |= log.Ltime
		case "microseconds":
			flags |= log.Lmicroseconds
		case "UTC":
			flags |= log.LUTC
		case "longfile":
			flags |= log.Llongfile
		case "shortfile":
			flags |= log.Lshortfile
		case "":
		default:
			return 0, errors.Errorf("unknown log format option %q", opt)
		}
	}
	return flags, nil
}

// logrusLevel is the logrus level matching level
func logrusLevel(level fs.LogLevel) logrus.Level {
	switch {
	case level >= fs.LogLevelDebug:
		return logrus.DebugLevel
	case level >= fs.LogLevelInfo:
		return logrus.InfoLevel
	case level >= fs.LogLevelNotice:
		return logrus.WarnLevel
	}
	return logrus.ErrorLevel
}

// InitLogging starts the logging as per the command line flags
//
// It returns a function to close the log file if one was opened.
func InitLogging() (closeLog func() error, err error) {
	closeLog = func() error { return nil }
	flags, err := logFlags(Opt.Format)
	if err != nil {
		return closeLog, err
	}
	log.SetFlags(flags)

	var w io.Writer = os.Stderr
	if Opt.File != "" {
		f, err := os.OpenFile(Opt.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
		if err != nil {
			return closeLog, errors.Wrap(err, "failed to open log file")
		}
		_, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			fs.Errorf(nil, "Failed to seek log file to end: %v", err)
		}
		w = f
		closeLog = f.Close
	}
	log.SetOutput(w)
	logrus.SetOutput(w)

	if fs.Config.UseJSONLog {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrusLevel(fs.Config.LogLevel))
	}
	return closeLog, nil
}

// Redirected returns true if the log has been redirected from stderr
func Redirected() bool {
	return Opt.File != ""
}
