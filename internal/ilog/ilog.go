// Package ilog is the container's internal logging surface: a thin
// wrapper over the standard library's log package with an "ioc: warning: "
// prefix for non-fatal problems, rather than a structured logging
// library. Resolution failures are always returned as errors; ilog only
// covers advisory messages a container emits about its own lifecycle
// (currently the eager singleton warm-up summary).
package ilog

import "log"

// Warnf logs a non-fatal problem.
func Warnf(format string, args ...interface{}) {
	log.Printf("ioc: warning: "+format, args...)
}

// Infof logs a routine lifecycle event (eager singleton warm-up
// completing).
func Infof(format string, args ...interface{}) {
	log.Printf("ioc: "+format, args...)
}
