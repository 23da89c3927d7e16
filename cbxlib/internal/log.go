package internal

import (
	"github.com/sirupsen/logrus"
)

// MyFormatter hands every entry to the host instead of writing it.
type MyFormatter struct {
	OnLog func(level int16, msg string)
}

func (f *MyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if f.OnLog != nil {
		msg := entry.Message
		if err, ok := entry.Data[logrus.ErrorKey]; ok {
			msg += ": " + toString(err)
		}
		f.OnLog(int16(entry.Level), msg)
	}
	return nil, nil
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
