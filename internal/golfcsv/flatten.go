package golfcsv

import (
	"golfexport/internal/components/telemetry"
	"time"
)

const (
	report_flatten_detail_hole = "flattener.detail-hole"
)

type FlattenerOptions struct {
	// Location dates are rendered in, defaults to time.Local.
	Location *time.Location
	// HoleSlots defaults to DefaultHoleSlots.
	HoleSlots int
	// Telemetry receives data-quality warnings, may be nil.
	Telemetry telemetry.API
}

// Flattener turns vendor records into rows matching the schema of their kind.
// It holds no per-export state and is safe to reuse.
type Flattener struct {
	loc       *time.Location
	holeSlots int
	tel       telemetry.API

	summary resolver[Object]
	round   resolver[roundRecord]
	hole    resolver[holeRecord]
	shot    resolver[shotRecord]
}

func NewFlattener(opts FlattenerOptions) Flattener {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	slots := opts.HoleSlots
	if slots <= 0 {
		slots = DefaultHoleSlots
	}
	var tel telemetry.API = telemetry.NoopAPI{}
	if opts.Telemetry != nil {
		tel = telemetry.NewScopedAPI("golfcsv", opts.Telemetry)
	}
	return Flattener{
		loc:       loc,
		holeSlots: slots,
		tel:       tel,
		summary:   summaryResolver(loc),
		round:     roundResolver(loc),
		hole:      holeResolver(),
		shot:      shotResolver(),
	}
}

// Schema returns the schema of a kind with the flattener's hole slot count.
func (f Flattener) Schema(kind Kind) (Schema, error) {
	return SchemaFor(kind, f.holeSlots)
}

// SummaryRow flattens one round summary into exactly one row.
func (f Flattener) SummaryRow(summary Object) Row {
	return f.summary.row(summaryFields, summary)
}

// RoundDetail is the scorecard of one round joined with its course context.
type RoundDetail struct {
	RoundID   string
	Scorecard Object
	// scorecardStats.round of the detail response, may be nil
	Stats     Object
	Course    CourseInfo
	HasCourse bool
}

// Holes returns the hole records of the scorecard in source order.
func (d RoundDetail) Holes() []Object {
	return d.Scorecard.Objects("holes")
}

// DetailRow flattens one round detail into exactly one row: the scorecard
// columns followed by HoleSlots groups of hole columns. Holes missing from the
// scorecard render as empty cells.
func (f Flattener) DetailRow(detail RoundDetail) Row {
	schema := DetailSchema(f.holeSlots)
	out := make(Row, 0, schema.Width())

	out = append(out, f.round.row(schema.Fields, roundRecord{
		scorecard: detail.Scorecard,
		stats:     detail.Stats,
		course:    detail.Course,
		hasCourse: detail.HasCourse,
	})...)

	holes := f.indexHoles(detail.RoundID, detail.Holes())
	for n := 1; n <= f.holeSlots; n++ {
		out = append(out, f.hole.row(schema.HoleFields, holeRecord{
			number: n,
			hole:   holes[n],
			course: detail.Course,
		})...)
	}
	return out
}

// indexHoles keys holes by hole number. Hole numbers outside the slot range
// and duplicate hole numbers are reported, a duplicate replaces the earlier
// record.
func (f Flattener) indexHoles(roundID string, holes []Object) map[int]Object {
	out := make(map[int]Object, len(holes))
	for _, hole := range holes {
		number, ok := hole.Get("number").Int()
		if !ok {
			f.tel.ReportWarning(report_flatten_detail_hole, "missing hole number", roundID)
			continue
		}
		if number < 1 || number > f.holeSlots {
			f.tel.ReportWarning(report_flatten_detail_hole, "hole number out of range", roundID, number)
			continue
		}
		if _, dup := out[number]; dup {
			f.tel.ReportWarning(report_flatten_detail_hole, "duplicate hole number", roundID, number)
		}
		out[number] = hole
	}
	return out
}

// RoundShots is the shot data of one round joined with its course context
// and per-hole scores.
type RoundShots struct {
	RoundID    string
	Course     CourseInfo
	HoleScores HoleScores
	// holeShots of the shot response
	HoleShots []Object
}

// ShotRows flattens the shots of one round into one row per shot, in hole
// order then shot order as given by the source.
func (f Flattener) ShotRows(round RoundShots, clubs ClubMapping) []Row {
	var out []Row
	for _, hole := range round.HoleShots {
		holeNumber := hole.Get("holeNumber")
		holeScore := Empty()
		if n, ok := holeNumber.Int(); ok {
			holeScore = round.HoleScores[n]
		}
		for _, shot := range hole.Objects("shots") {
			out = append(out, f.shot.row(shotFields, shotRecord{
				shot:       shot,
				holeNumber: holeNumber,
				holeScore:  holeScore,
				course:     round.Course,
				clubs:      clubs,
			}))
		}
	}
	return out
}
