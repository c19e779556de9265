package dispose

import (
	corelog "haircast-core/internal/core/log"
)

// Thin shims so the package can log without pulling the log package name
// into every call site.

func Debugf(format string, args ...interface{}) {
	corelog.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	corelog.Infof(format, args...)
}

func Warn(args ...interface{}) {
	corelog.Warn(args...)
}

func Errorf(format string, args ...interface{}) {
	corelog.Errorf(format, args...)
}
