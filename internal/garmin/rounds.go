package garmin

import (
	"context"
	"fmt"
	"golfexport/internal/golfcsv"
	"net/url"
	"strconv"
)

const (
	summaryPath = "/gcs-golfcommunity/api/v2/scorecard/summary"
	detailPath  = "/gcs-golfcommunity/api/v2/scorecard/detail"
	shotPathFmt = "/gcs-golfcommunity/api/v2/shot/scorecard/%s/hole"
)

type summaryResponse struct {
	Summaries *[]golfcsv.Object `json:"scorecardSummaries"`
}

// RoundSummaries returns one summary per completed round, in the order the
// service lists them.
func (c *Client) RoundSummaries(ctx context.Context, cred Credential) ([]golfcsv.Object, error) {
	var summaries []golfcsv.Object
	err := traced(ctx, "client:RoundSummaries", func(ctx context.Context) error {
		var res summaryResponse
		err := c.get(ctx, cred, summaryPath, map[string]string{
			"user-locale": "en",
			"per-page":    strconv.Itoa(c.pageSize),
		}, &res)
		if err != nil {
			return err
		}
		if res.Summaries == nil {
			return fmt.Errorf("GET %s: %w: missing scorecardSummaries", summaryPath, ErrMalformedResponse)
		}
		summaries = *res.Summaries
		return nil
	})
	return summaries, err
}

// ScorecardDetail is the detail of one round.
type ScorecardDetail struct {
	// the scorecard, its holes are under "holes"
	Scorecard golfcsv.Object
	// scorecardStats.round, may be nil
	Stats golfcsv.Object
}

type scorecardDetail struct {
	Scorecard      golfcsv.Object `json:"scorecard"`
	ScorecardStats struct {
		Round golfcsv.Object `json:"round"`
	} `json:"scorecardStats"`
}

type detailResponse struct {
	Details *[]scorecardDetail `json:"scorecardDetails"`
}

// RoundDetail returns the scorecard of a round.
func (c *Client) RoundDetail(ctx context.Context, cred Credential, roundID string) (ScorecardDetail, error) {
	var detail ScorecardDetail
	err := traced(ctx, "client:RoundDetail", func(ctx context.Context) error {
		var res detailResponse
		err := c.get(ctx, cred, detailPath, map[string]string{
			"scorecard-ids":                 roundID,
			"include-next-previous-ids":     "true",
			"user-locale":                   "en",
			"include-longest-shot-distance": "true",
		}, &res)
		if err != nil {
			return err
		}
		if res.Details == nil || len(*res.Details) == 0 {
			return fmt.Errorf("GET %s: %w: missing scorecardDetails", detailPath, ErrMalformedResponse)
		}
		first := (*res.Details)[0]
		if first.Scorecard == nil {
			return fmt.Errorf("GET %s: %w: missing scorecard", detailPath, ErrMalformedResponse)
		}
		detail = ScorecardDetail{
			Scorecard: first.Scorecard,
			Stats:     first.ScorecardStats.Round,
		}
		return nil
	})
	return detail, err
}

type shotResponse struct {
	HoleShots *[]golfcsv.Object `json:"holeShots"`
}

// Shots returns the shots of a round grouped per hole, each element carries
// a holeNumber and a shots array.
func (c *Client) Shots(ctx context.Context, cred Credential, roundID string) ([]golfcsv.Object, error) {
	var holeShots []golfcsv.Object
	err := traced(ctx, "client:Shots", func(ctx context.Context) error {
		path := fmt.Sprintf(shotPathFmt, url.PathEscape(roundID))
		var res shotResponse
		err := c.get(ctx, cred, path, nil, &res)
		if err != nil {
			return err
		}
		if res.HoleShots == nil {
			return fmt.Errorf("GET %s: %w: missing holeShots", path, ErrMalformedResponse)
		}
		holeShots = *res.HoleShots
		return nil
	})
	return holeShots, err
}
