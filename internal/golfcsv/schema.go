package golfcsv

import (
	"fmt"
	"strings"
)

// Kind selects the schema and flattening strategy of an export.
type Kind string

const (
	KindSummary Kind = "summary"
	KindDetail  Kind = "detail"
	KindShots   Kind = "shots"
)

// DefaultHoleSlots is the number of per-hole column groups in a detail export.
const DefaultHoleSlots = 18

// Kinds lists every export kind in the order `all` runs them.
var Kinds = []Kind{KindSummary, KindDetail, KindShots}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown export kind %q (expected one of summary, detail, shots)", s)
}

var summaryFields = []string{
	"courseName",
	"strokes",
	"holesCompleted",
	"startTime",
	"endTime",
	"handicappedStrokes",
	"scoreWithHandicap",
	"scoreWithoutHandicap",
}

var scorecardFields = []string{
	"courseName",
	"date",
	"strokes",
	"handicappedStrokes",
	"holesCompleted",
	"playerHandicap",
	"teeBox",
	"teeBoxRating",
	"teeBoxSlope",
	"holesPlayed",
	"fairwaysRecorded",
	"fairwaysHit",
	"fairwaysLeft",
	"fairwaysRight",
	"greensInRegulation",
	"greensRecorded",
	"putts",
	"scoreWithHandicap",
	"scoreWithoutHandicap",
	"meanPuttsPerHole",
	"holesUnderPar",
	"holesPar",
	"holesBogey",
	"holesOverBogey",
	"holesBirdie",
	"holesEagle",
	"holesDoubleEagleOrUnder",
	"upsAndDowns",
	"chips",
}

var holeFields = []string{
	"number",
	"par",
	"strokes",
	"handicapScore",
	"putts",
	"fairwayShotOutcome",
}

var shotFields = []string{
	"courseName",
	"holeNumber",
	"holeScore",
	"shotOrder",
	"shotTime",
	"clubType",
	"shotType",
	"yards",
	"startLoc_lie",
	"endLoc_lie",
	"startLoc_lat",
	"startLoc_lon",
	"endLoc_lat",
	"endLoc_lon",
}

// Schema is the ordered column list of one export kind. Column order never
// depends on the records being flattened.
type Schema struct {
	Kind Kind
	// round-level (or shot-level) columns
	Fields []string
	// per-hole columns, repeated HoleSlots times after Fields
	HoleFields []string
	HoleSlots  int
}

// Columns returns the full header in output order.
func (s Schema) Columns() []string {
	out := make([]string, 0, s.Width())
	out = append(out, s.Fields...)
	for n := 1; n <= s.HoleSlots; n++ {
		for _, f := range s.HoleFields {
			out = append(out, HoleColumn(n, f))
		}
	}
	return out
}

// Width is the number of columns of every row.
func (s Schema) Width() int {
	return len(s.Fields) + s.HoleSlots*len(s.HoleFields)
}

// HoleColumn names the column of a per-hole field, eg. hole3_par.
func HoleColumn(hole int, field string) string {
	return fmt.Sprintf("hole%d_%s", hole, field)
}

func SummarySchema() Schema {
	return Schema{Kind: KindSummary, Fields: clone(summaryFields)}
}

func DetailSchema(holeSlots int) Schema {
	if holeSlots <= 0 {
		holeSlots = DefaultHoleSlots
	}
	return Schema{
		Kind:       KindDetail,
		Fields:     clone(scorecardFields),
		HoleFields: clone(holeFields),
		HoleSlots:  holeSlots,
	}
}

func ShotSchema() Schema {
	return Schema{Kind: KindShots, Fields: clone(shotFields)}
}

// SchemaFor returns the schema registered for a kind.
func SchemaFor(kind Kind, holeSlots int) (Schema, error) {
	switch kind {
	case KindSummary:
		return SummarySchema(), nil
	case KindDetail:
		return DetailSchema(holeSlots), nil
	case KindShots:
		return ShotSchema(), nil
	}
	return Schema{}, fmt.Errorf("unknown export kind %q", kind)
}

func clone(fields []string) []string {
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}
