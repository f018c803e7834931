package telemetry

import (
	"strings"
	"sync"
)

// Report is one call recorded by Recorder.
type Report struct {
	Level  string
	ID     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory, it is meant for
// asserting on reported breakage in tests.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) add(report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Level: "broken", ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Level: "warning", ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Level: "debug", ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Level: "count", ID: id, Count: count})
}

// Find returns the reports of a level whose id ends with suffix.
func (r *Recorder) Find(level, suffix string) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Report
	for _, report := range r.reports {
		if report.Level == level && strings.HasSuffix(report.ID, suffix) {
			out = append(out, report)
		}
	}
	return out
}
