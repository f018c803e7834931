package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics.
// This allows for assertions on reported breakage and warnings in tests.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that has broken in a way that aborts the current operation.
	//
	// The `id` identifies the **component** that broke, not the specific line that broke. It should
	// be specific enough that someone reading the report can find the place that is broken.
	//
	// ex. Suppose fetching the round summaries fails in the garmin client's `RoundSummaries` method,
	// the id should be `client.round-summaries`, the status code or cause goes into the params.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) use underscores for large components
	// 3) use dashes for methods part of a larger component
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that does not stop the operation but may be subject to
	// investigation, like a round that was skipped or a malformed hole record.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports some debug information that is dropped unless verbose logging is on.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current count of a specific event, these counts should not be
	// summed but interpreted as points of data over time.
	//
	// For what value to provide as `id` refer to ReportBroken.
	ReportCount(id string, count int64)
}

// ScopedAPI is a telemetry API that attaches a namespace for a given API, kind of like creating a
// "sub" logger using things like log.New(), in which you can define the prefix for the logs.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}

// NoopAPI discards every report.
type NoopAPI struct{}

func (NoopAPI) ReportBroken(string, ...any)  {}
func (NoopAPI) ReportWarning(string, ...any) {}
func (NoopAPI) ReportDebug(string, ...any)   {}
func (NoopAPI) ReportCount(string, int64)    {}
