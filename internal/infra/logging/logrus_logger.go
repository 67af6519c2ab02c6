package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLogger writes JSON entries through logrus.
type LogrusLogger struct {
	Entry *logrus.Entry
}

func NewLogrusLogger(level string, out io.Writer) *LogrusLogger {
	if out == nil {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &LogrusLogger{Entry: logrus.NewEntry(l)}
}

// With returns a logger that adds fields to every entry.
func (l *LogrusLogger) With(fields map[string]any) *LogrusLogger {
	return &LogrusLogger{Entry: l.Entry.WithFields(logrus.Fields(fields))}
}

func (l *LogrusLogger) Info(msg string, fields map[string]any) {
	l.Entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]any) {
	l.Entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, fields map[string]any) {
	l.Entry.WithFields(logrus.Fields(fields)).Error(msg)
}
