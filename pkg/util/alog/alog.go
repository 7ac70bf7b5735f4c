// Package alog is the logging facade used across yarnlogs, backed by klog.
package alog

import (
	"fmt"

	"k8s.io/klog/v2"
)

// Verbose is a boolean-like logger gated by the -v flag
type Verbose = klog.Verbose

// V reports whether verbosity at the call site is at least the requested level
func V(level klog.Level) Verbose {
	return klog.V(level)
}

// Infof logs a formatted message to the INFO log
func Infof(format string, args ...interface{}) {
	klog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// Warningf logs a formatted message to the WARNING and INFO logs
func Warningf(format string, args ...interface{}) {
	klog.WarningDepth(1, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message to the ERROR, WARNING and INFO logs
func Errorf(format string, args ...interface{}) {
	klog.ErrorDepth(1, fmt.Sprintf(format, args...))
}
