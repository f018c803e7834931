package golfcsv

import (
	"math"
	"strconv"
	"time"
)

// MetersToYards is the conversion factor applied to shot distances.
const MetersToYards = 1.09361

// accessor is one attempt at producing a field value from a record, ok is
// false when the attempt does not apply and the next one should be tried.
type accessor[R any] func(rec R) (Value, bool)

// resolver maps field names to an ordered list of accessor attempts. Fields
// without an explicit entry use the fallback chain built from the name.
type resolver[R any] struct {
	fields   map[string][]accessor[R]
	fallback func(field string) []accessor[R]
}

func (r resolver[R]) resolve(field string, rec R) Value {
	attempts, ok := r.fields[field]
	if !ok && r.fallback != nil {
		attempts = r.fallback(field)
	}
	for _, attempt := range attempts {
		if v, ok := attempt(rec); ok {
			return v
		}
	}
	return Empty()
}

func (r resolver[R]) row(fields []string, rec R) Row {
	out := make(Row, len(fields))
	for i, f := range fields {
		out[i] = r.resolve(f, rec)
	}
	return out
}

func always[R any](fn func(rec R) Value) accessor[R] {
	return func(rec R) (Value, bool) {
		return fn(rec), true
	}
}

// summary

func summaryResolver(loc *time.Location) resolver[Object] {
	dateOf := func(field string) accessor[Object] {
		return always(func(rec Object) Value {
			t, ok := parseTimestamp(rec.Get(field), loc)
			if !ok {
				return Empty()
			}
			return Text(formatDate(t, loc))
		})
	}
	return resolver[Object]{
		fields: map[string][]accessor[Object]{
			"startTime": {dateOf("startTime")},
			"endTime":   {dateOf("endTime")},
		},
		fallback: func(field string) []accessor[Object] {
			return []accessor[Object]{
				func(rec Object) (Value, bool) { return rec.Lookup(field) },
			}
		},
	}
}

// round (scorecard)

type roundRecord struct {
	scorecard Object
	// scorecardStats.round
	stats     Object
	course    CourseInfo
	hasCourse bool
}

func roundResolver(loc *time.Location) resolver[roundRecord] {
	return resolver[roundRecord]{
		fields: map[string][]accessor[roundRecord]{
			"date": {always(func(rec roundRecord) Value {
				t, ok := parseTimestamp(rec.scorecard.Get("startTime"), loc)
				if !ok {
					return Empty()
				}
				return Text(formatDate(t, loc))
			})},
			"courseName": {
				func(rec roundRecord) (Value, bool) {
					if !rec.hasCourse {
						return Empty(), false
					}
					return Text(rec.course.CourseName), true
				},
				func(rec roundRecord) (Value, bool) { return rec.scorecard.Lookup("courseName") },
			},
		},
		// aggregate statistics take precedence over same-named scorecard attributes
		fallback: func(field string) []accessor[roundRecord] {
			return []accessor[roundRecord]{
				func(rec roundRecord) (Value, bool) { return rec.stats.Lookup(field) },
				func(rec roundRecord) (Value, bool) { return rec.scorecard.Lookup(field) },
			}
		},
	}
}

// hole

type holeRecord struct {
	number int
	// nil when the hole was not played
	hole   Object
	course CourseInfo
}

func holeResolver() resolver[holeRecord] {
	return resolver[holeRecord]{
		fields: map[string][]accessor[holeRecord]{
			"par": {
				func(rec holeRecord) (Value, bool) {
					par, ok := rec.course.Par(rec.number)
					if !ok {
						return Empty(), false
					}
					return Text(par), true
				},
				func(rec holeRecord) (Value, bool) { return rec.hole.Lookup("par") },
			},
		},
		fallback: func(field string) []accessor[holeRecord] {
			return []accessor[holeRecord]{
				func(rec holeRecord) (Value, bool) { return rec.hole.Lookup(field) },
			}
		},
	}
}

// shot

type shotRecord struct {
	shot       Object
	holeNumber Value
	holeScore  Value
	course     CourseInfo
	clubs      ClubMapping
}

func locationField(loc, field string) []accessor[shotRecord] {
	return []accessor[shotRecord]{
		func(rec shotRecord) (Value, bool) {
			location := rec.shot.Object(loc)
			if location == nil {
				return Empty(), true
			}
			return location.Lookup(field)
		},
	}
}

func shotResolver() resolver[shotRecord] {
	return resolver[shotRecord]{
		fields: map[string][]accessor[shotRecord]{
			"courseName": {always(func(rec shotRecord) Value { return Text(rec.course.CourseName) })},
			"holeNumber": {always(func(rec shotRecord) Value { return rec.holeNumber })},
			"holeScore":  {always(func(rec shotRecord) Value { return rec.holeScore })},
			"clubType": {always(func(rec shotRecord) Value {
				return Text(rec.clubs.Name(rec.shot.Get("clubId")))
			})},
			"yards": {always(func(rec shotRecord) Value {
				return yards(rec.shot.Get("meters"))
			})},
			"shotTime": {always(func(rec shotRecord) Value {
				t, ok := parseTimestamp(rec.shot.Get("shotTime"), time.UTC)
				if !ok {
					return Empty()
				}
				return Text(formatISO(t))
			})},
			"startLoc_lie": locationField("startLoc", "lie"),
			"startLoc_lat": locationField("startLoc", "lat"),
			"startLoc_lon": locationField("startLoc", "lon"),
			"endLoc_lie":   locationField("endLoc", "lie"),
			"endLoc_lat":   locationField("endLoc", "lat"),
			"endLoc_lon":   locationField("endLoc", "lon"),
		},
		fallback: func(field string) []accessor[shotRecord] {
			return []accessor[shotRecord]{
				func(rec shotRecord) (Value, bool) { return rec.shot.Lookup(field) },
			}
		},
	}
}

// yards converts a distance in meters to yards with one decimal place, ties
// round away from zero.
func yards(meters Value) Value {
	m, ok := meters.Float()
	if !ok {
		return Empty()
	}
	y := m * MetersToYards
	if y == 0 {
		return Literal("0.0")
	}
	return Literal(strconv.FormatFloat(math.Round(y*10)/10, 'f', 1, 64))
}
