package logger

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

const packagePath = "lighterprobe/logger"

// callerHook points the reported caller at the first frame outside of
// logrus and this package, so wrapped Entry methods report the call site.
type callerHook struct{}

func (h *callerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *callerHook) Fire(entry *logrus.Entry) error {
	pcs := make([]uintptr, 16)
	// Skip runtime.Callers, this method and the logrus hook dispatch.
	n := runtime.Callers(6, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if isInternalFrame(frame.Function) {
			if !more {
				break
			}
			continue
		}
		entry.Caller = &frame
		break
	}
	return nil
}

func isInternalFrame(fn string) bool {
	return strings.Contains(fn, "sirupsen/logrus") || strings.Contains(fn, packagePath+".")
}
