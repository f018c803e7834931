package export

import (
	"context"
	"fmt"
	"golfexport/internal/garmin"
	"golfexport/internal/golfcsv"
)

// lookups are built once per export before the per-round loop and are
// read-only afterwards.
type lookups struct {
	courses golfcsv.CourseInfoMap
	clubs   golfcsv.ClubMapping
}

type round struct {
	id        string
	course    golfcsv.CourseInfo
	hasCourse bool
}

// descriptor is what varies between export kinds, the rest of the pipeline
// is shared.
type descriptor struct {
	// builds lookups beyond the course map, a failure aborts the export
	prepare func(ctx context.Context, e *Exporter, cred garmin.Credential, lk *lookups) error
	// flattens one round, nil for kinds that flatten summaries directly
	round func(ctx context.Context, e *Exporter, cred garmin.Credential, lk lookups, r round) ([]golfcsv.Row, error)
}

var descriptors = map[golfcsv.Kind]descriptor{
	golfcsv.KindSummary: {},
	golfcsv.KindDetail: {
		round: detailRound,
	},
	golfcsv.KindShots: {
		prepare: prepareClubs,
		round:   shotRound,
	},
}

func detailRound(ctx context.Context, e *Exporter, cred garmin.Credential, lk lookups, r round) ([]golfcsv.Row, error) {
	detail, err := e.source.RoundDetail(ctx, cred, r.id)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}
	row := e.flattener.DetailRow(golfcsv.RoundDetail{
		RoundID:   r.id,
		Scorecard: detail.Scorecard,
		Stats:     detail.Stats,
		Course:    r.course,
		HasCourse: r.hasCourse,
	})
	return []golfcsv.Row{row}, nil
}

func prepareClubs(ctx context.Context, e *Exporter, cred garmin.Credential, lk *lookups) error {
	clubs, err := e.source.ClubMapping(ctx, cred)
	if err != nil {
		return fmt.Errorf("fetch club mapping: %w", err)
	}
	lk.clubs = clubs
	return nil
}

// shotRound needs the round detail for hole scores, a failure of either
// request skips the round.
func shotRound(ctx context.Context, e *Exporter, cred garmin.Credential, lk lookups, r round) ([]golfcsv.Row, error) {
	detail, err := e.source.RoundDetail(ctx, cred, r.id)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}
	holeShots, err := e.source.Shots(ctx, cred, r.id)
	if err != nil {
		return nil, fmt.Errorf("fetch shots: %w", err)
	}
	return e.flattener.ShotRows(golfcsv.RoundShots{
		RoundID:    r.id,
		Course:     r.course,
		HoleScores: golfcsv.NewHoleScores(detail.Scorecard.Objects("holes")),
		HoleShots:  holeShots,
	}, lk.clubs), nil
}
