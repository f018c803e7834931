package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"golfexport/internal/golfcsv"
)

const (
	clubTypesPath   = "/gcs-golfcommunity/api/v2/club/types"
	playerClubsPath = "/gcs-golfcommunity/api/v2/club/player"
	maxClubTypeId   = "42"
)

// clubTypesResponse is either a bare array or an object wrapping it
type clubTypesResponse struct {
	types []golfcsv.Object
}

func (r *clubTypesResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &r.types)
	}
	var wrapped struct {
		ClubTypes *[]golfcsv.Object `json:"clubTypes"`
	}
	err := json.Unmarshal(trimmed, &wrapped)
	if err != nil {
		return err
	}
	if wrapped.ClubTypes == nil {
		return fmt.Errorf("missing clubTypes")
	}
	r.types = *wrapped.ClubTypes
	return nil
}

// ClubTypes returns every club type (id, name).
func (c *Client) ClubTypes(ctx context.Context, cred Credential) ([]golfcsv.Object, error) {
	var types []golfcsv.Object
	err := traced(ctx, "client:ClubTypes", func(ctx context.Context) error {
		var res clubTypesResponse
		err := c.get(ctx, cred, clubTypesPath, map[string]string{
			"maxClubTypeId": maxClubTypeId,
		}, &res)
		if err != nil {
			return err
		}
		types = res.types
		return nil
	})
	return types, err
}

// PlayerClubs returns the clubs in the player's bag (id, clubTypeId).
func (c *Client) PlayerClubs(ctx context.Context, cred Credential) ([]golfcsv.Object, error) {
	var clubs []golfcsv.Object
	err := traced(ctx, "client:PlayerClubs", func(ctx context.Context) error {
		var res *[]golfcsv.Object
		err := c.get(ctx, cred, playerClubsPath, map[string]string{
			"per-page":      "1000",
			"maxClubTypeId": maxClubTypeId,
		}, &res)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("GET %s: %w: expected an array of clubs", playerClubsPath, ErrMalformedResponse)
		}
		clubs = *res
		return nil
	})
	return clubs, err
}

// ClubMapping fetches club types and player clubs and composes them into a
// club id -> club name table.
func (c *Client) ClubMapping(ctx context.Context, cred Credential) (golfcsv.ClubMapping, error) {
	types, err := c.ClubTypes(ctx, cred)
	if err != nil {
		return nil, err
	}
	clubs, err := c.PlayerClubs(ctx, cred)
	if err != nil {
		return nil, err
	}
	return golfcsv.NewClubMapping(types, clubs), nil
}
