// Package klog provides the kernel's one logging sink: boot and
// diagnostic lines only, never the syscall hot path. No third-party
// logging library appears anywhere in the retrieved pack for a
// freestanding kernel target, so this stays on the standard library.
package klog

import "log"
import "os"

var std = log.New(os.Stdout, "zeoscore: ", 0)

/// SetOutput redirects the logger, which writes to stdout until it is
/// called.
func SetOutput(w interface {
	Write(p []byte) (int, error)
}) {
	std.SetOutput(w)
}

/// Bootf logs a boot-time diagnostic line.
func Bootf(format string, args ...interface{}) {
	std.Printf(format, args...)
}

/// Warnf logs a recoverable anomaly, e.g. frame exhaustion under load.
func Warnf(format string, args ...interface{}) {
	std.Printf("warning: "+format, args...)
}
