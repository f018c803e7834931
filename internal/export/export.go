package export

import (
	"context"
	"errors"
	"fmt"
	"golfexport/internal/chrono"
	"golfexport/internal/components/telemetry"
	"golfexport/internal/garmin"
	"golfexport/internal/golfcsv"
	"golfexport/internal/sink"
	otelutil "golfexport/lib/telemetry"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otelutil.Tracer("golfexport/internal/export")
var meter = otelutil.Meter("golfexport/internal/export")
var rowsCounter, _ = meter.Int64Counter("golfexport.rows")
var skippedCounter, _ = meter.Int64Counter("golfexport.rounds_skipped")

const (
	report_export_run   = "exporter.run"
	report_export_round = "exporter.round"
	report_export_rows  = "exporter.rows"
)

// ErrCredentialUnavailable aborts an export before any request is made.
var ErrCredentialUnavailable = errors.New("credential unavailable")

var errMissingRoundID = errors.New("round summary has no id")

// Source is the remote record source an export reads from, every call takes
// the caller's credential explicitly.
type Source interface {
	RoundSummaries(ctx context.Context, cred garmin.Credential) ([]golfcsv.Object, error)
	RoundDetail(ctx context.Context, cred garmin.Credential, roundID string) (garmin.ScorecardDetail, error)
	Shots(ctx context.Context, cred garmin.Credential, roundID string) ([]golfcsv.Object, error)
	ClubMapping(ctx context.Context, cred garmin.Credential) (golfcsv.ClubMapping, error)
}

// Observer is notified of per-round progress: (0, total) before the first
// round, then once after every round whether it was exported or skipped.
type Observer interface {
	OnProgress(completed, total int)
}

type ObserverFunc func(completed, total int)

func (f ObserverFunc) OnProgress(completed, total int) {
	f(completed, total)
}

type noopObserver struct{}

func (noopObserver) OnProgress(int, int) {}

type Options struct {
	Source    Source
	Sink      sink.Sink
	Flattener golfcsv.Flattener
	// defaults to the local system clock
	Clock chrono.TimeAPI
	// may be nil
	Observer  Observer
	Telemetry telemetry.API
}

// Exporter runs one export kind end to end: summaries, lookups, the
// sequential per-round loop, CSV assembly, then a single save.
type Exporter struct {
	source    Source
	sink      sink.Sink
	flattener golfcsv.Flattener
	clock     chrono.TimeAPI
	observer  Observer
	tel       telemetry.API
}

func NewExporter(opts Options) *Exporter {
	e := &Exporter{
		source:    opts.Source,
		sink:      opts.Sink,
		flattener: opts.Flattener,
		clock:     opts.Clock,
		observer:  opts.Observer,
		tel:       opts.Telemetry,
	}
	if e.clock == nil {
		e.clock = chrono.NewStandardTime(nil)
	}
	if e.observer == nil {
		e.observer = noopObserver{}
	}
	if e.tel == nil {
		e.tel = telemetry.NoopAPI{}
	}
	e.tel = telemetry.NewScopedAPI("export", e.tel)
	return e
}

// Result describes a completed export.
type Result struct {
	// correlates the log lines and spans of one run
	RunID    string
	Kind     golfcsv.Kind
	Filename string
	// where the sink put the file
	Location string
	// rounds listed by the summary resource
	Rounds int
	// rounds whose detail or shot requests failed
	Skipped int
	// data rows written, excluding the header
	Rows int
}

// Filename is {kind}_{YYYY-MM-DD}.csv using the date of the export.
func Filename(kind golfcsv.Kind, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", kind, now.Format("2006-01-02"))
}

// Run performs one export. A failure fetching summaries or lookups, or
// saving the file, aborts the export without writing anything. A failure
// fetching a single round skips that round.
func (e *Exporter) Run(ctx context.Context, kind golfcsv.Kind, cred garmin.Credential) (Result, error) {
	ctx, span := tracer.Start(ctx, "export:Run")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("run_id", runID),
	)

	result, err := e.run(ctx, kind, cred)
	result.RunID = runID
	if err != nil {
		e.tel.ReportBroken(report_export_run, string(kind), runID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("%s export failed: %w", kind, err)
	}

	span.SetAttributes(
		attribute.Int("rows", result.Rows),
		attribute.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (e *Exporter) run(ctx context.Context, kind golfcsv.Kind, cred garmin.Credential) (Result, error) {
	result := Result{Kind: kind}

	desc, ok := descriptors[kind]
	if !ok {
		return result, fmt.Errorf("unknown export kind %q", kind)
	}
	schema, err := e.flattener.Schema(kind)
	if err != nil {
		return result, err
	}
	if cred.Empty() {
		return result, ErrCredentialUnavailable
	}

	summaries, err := e.source.RoundSummaries(ctx, cred)
	if err != nil {
		return result, fmt.Errorf("fetch round summaries: %w", err)
	}
	lk := lookups{courses: golfcsv.NewCourseInfoMap(summaries)}
	if desc.prepare != nil {
		err = desc.prepare(ctx, e, cred, &lk)
		if err != nil {
			return result, err
		}
	}

	table := golfcsv.NewTable(schema)
	total := len(summaries)
	result.Rounds = total
	e.observer.OnProgress(0, total)

	if desc.round == nil {
		for _, summary := range summaries {
			err = table.Append(e.flattener.SummaryRow(summary))
			if err != nil {
				return result, err
			}
		}
		if total > 0 {
			e.observer.OnProgress(total, total)
		}
	} else {
		for i, summary := range summaries {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			rows, err := e.exportRound(ctx, desc, cred, lk, summary)
			if err != nil {
				result.Skipped++
				skippedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
				e.tel.ReportWarning(report_export_round, "skipped round", i+1, total, err)
			} else {
				err = table.Append(rows...)
				if err != nil {
					return result, err
				}
			}

			e.observer.OnProgress(i+1, total)
		}
	}

	result.Rows = table.Len()
	result.Filename = Filename(kind, e.clock.Now())

	location, err := e.sink.Save(ctx, result.Filename, table.Bytes())
	if err != nil {
		return result, fmt.Errorf("save %s: %w", result.Filename, err)
	}
	result.Location = location

	rowsCounter.Add(ctx, int64(result.Rows), metric.WithAttributes(attribute.String("kind", string(kind))))
	e.tel.ReportCount(report_export_rows, int64(result.Rows))
	return result, nil
}

func (e *Exporter) exportRound(
	ctx context.Context,
	desc descriptor,
	cred garmin.Credential,
	lk lookups,
	summary golfcsv.Object,
) ([]golfcsv.Row, error) {
	id, ok := golfcsv.RoundID(summary)
	if !ok {
		return nil, errMissingRoundID
	}
	course, hasCourse := lk.courses[id]
	rows, err := desc.round(ctx, e, cred, lk, round{
		id:        id,
		course:    course,
		hasCourse: hasCourse,
	})
	if err != nil {
		return nil, fmt.Errorf("round %s: %w", id, err)
	}
	return rows, nil
}
