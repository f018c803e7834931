package garmin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type captured struct {
	path   string
	query  map[string]string
	header http.Header
}

type fakeGarmin struct {
	mu       sync.Mutex
	requests []captured
	routes   map[string]func(w http.ResponseWriter)
}

func (f *fakeGarmin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := map[string]string{}
	for key := range r.URL.Query() {
		query[key] = r.URL.Query().Get(key)
	}
	f.mu.Lock()
	f.requests = append(f.requests, captured{path: r.URL.Path, query: query, header: r.Header.Clone()})
	f.mu.Unlock()

	route, ok := f.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	route(w)
}

func jsonBody(body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*Client, *fakeGarmin) {
	t.Helper()
	fake := &fakeGarmin{routes: routes}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client, fake
}

func TestCredential(t *testing.T) {
	require.True(t, NewCredential("").Empty())
	require.True(t, NewCredential("   ").Empty())
	require.Equal(t, "Bearer abc", NewCredential("abc").header)
	require.Equal(t, "Bearer abc", NewCredential(" Bearer abc ").header)
	require.Equal(t, "<redacted>", NewCredential("abc").String())
	require.Equal(t, "<none>", Credential{}.String())
}

func TestRoundSummaries(t *testing.T) {
	client, fake := newTestClient(t, map[string]func(w http.ResponseWriter){
		summaryPath: jsonBody(`{"scorecardSummaries": [
			{"id": 1, "courseName": "Pebble Beach", "holePars": "443"},
			{"id": 2, "courseName": "Augusta"}
		]}`),
	})

	summaries, err := client.RoundSummaries(context.Background(), NewCredential("secret"))
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "Pebble Beach", summaries[0].Get("courseName").String())
	require.Equal(t, "2", summaries[1].Get("id").String())

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	require.Equal(t, "10000", req.query["per-page"])
	require.Equal(t, "en", req.query["user-locale"])
	require.Equal(t, "Bearer secret", req.header.Get("authorization"))
	require.Equal(t, "golf.garmin.com", req.header.Get("di-backend"))
	require.Equal(t, "NT", req.header.Get("nk"))
	require.Equal(t, DefaultAppVersion, req.header.Get("x-app-ver"))
	require.Equal(t, "en-US", req.header.Get("x-lang"))
}

func TestRoundDetail(t *testing.T) {
	client, fake := newTestClient(t, map[string]func(w http.ResponseWriter){
		detailPath: jsonBody(`{"scorecardDetails": [{
			"scorecard": {"id": 7, "strokes": 85, "holes": [{"number": 1, "strokes": 4}]},
			"scorecardStats": {"round": {"putts": 31}}
		}]}`),
	})

	detail, err := client.RoundDetail(context.Background(), NewCredential("secret"), "7")
	require.NoError(t, err)
	require.Equal(t, "85", detail.Scorecard.Get("strokes").String())
	require.Len(t, detail.Scorecard.Objects("holes"), 1)
	require.Equal(t, "31", detail.Stats.Get("putts").String())

	require.Equal(t, "7", fake.requests[0].query["scorecard-ids"])
	require.Equal(t, "true", fake.requests[0].query["include-longest-shot-distance"])
}

func TestRoundDetailWithoutStats(t *testing.T) {
	client, _ := newTestClient(t, map[string]func(w http.ResponseWriter){
		detailPath: jsonBody(`{"scorecardDetails": [{"scorecard": {"id": 7}}]}`),
	})
	detail, err := client.RoundDetail(context.Background(), NewCredential("secret"), "7")
	require.NoError(t, err)
	require.Nil(t, detail.Stats)
}

func TestShots(t *testing.T) {
	client, fake := newTestClient(t, map[string]func(w http.ResponseWriter){
		"/gcs-golfcommunity/api/v2/shot/scorecard/7/hole": jsonBody(`{"holeShots": [
			{"holeNumber": 1, "shots": [{"shotOrder": 1, "meters": 201.3}]}
		]}`),
	})

	holeShots, err := client.Shots(context.Background(), NewCredential("secret"), "7")
	require.NoError(t, err)
	require.Len(t, holeShots, 1)
	require.Equal(t, "201.3", holeShots[0].Objects("shots")[0].Get("meters").String())
	require.Len(t, fake.requests, 1)
}

func TestClubMappingShapes(t *testing.T) {
	players := jsonBody(`[{"id": 1001, "clubTypeId": 1}, {"id": 1002, "clubTypeId": 3}]`)
	testCases := []struct {
		name  string
		types string
	}{
		{name: "bare array", types: `[{"id": 1, "name": "Driver"}]`},
		{name: "wrapped", types: `{"clubTypes": [{"id": 1, "name": "Driver"}]}`},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			client, fake := newTestClient(t, map[string]func(w http.ResponseWriter){
				clubTypesPath:   jsonBody(test.types),
				playerClubsPath: players,
			})
			mapping, err := client.ClubMapping(context.Background(), NewCredential("secret"))
			require.NoError(t, err)
			require.Equal(t, "Driver", mapping["1001"])
			require.Equal(t, "Unknown", mapping["1002"])
			require.Equal(t, "42", fake.requests[0].query["maxClubTypeId"])
		})
	}
}

func TestStatusError(t *testing.T) {
	client, _ := newTestClient(t, map[string]func(w http.ResponseWriter){
		summaryPath: func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("token expired"))
		},
	})

	_, err := client.RoundSummaries(context.Background(), NewCredential("secret"))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	require.Contains(t, statusErr.Error(), "token expired")
}

func TestMalformedResponses(t *testing.T) {
	testCases := []struct {
		name string
		path string
		body string
		call func(c *Client) error
	}{
		{
			name: "summary not json",
			path: summaryPath,
			body: `<html>`,
			call: func(c *Client) error {
				_, err := c.RoundSummaries(context.Background(), NewCredential("x"))
				return err
			},
		},
		{
			name: "summary missing collection",
			path: summaryPath,
			body: `{"other": []}`,
			call: func(c *Client) error {
				_, err := c.RoundSummaries(context.Background(), NewCredential("x"))
				return err
			},
		},
		{
			name: "detail empty",
			path: detailPath,
			body: `{"scorecardDetails": []}`,
			call: func(c *Client) error {
				_, err := c.RoundDetail(context.Background(), NewCredential("x"), "1")
				return err
			},
		},
		{
			name: "shots missing collection",
			path: "/gcs-golfcommunity/api/v2/shot/scorecard/1/hole",
			body: `{}`,
			call: func(c *Client) error {
				_, err := c.Shots(context.Background(), NewCredential("x"), "1")
				return err
			},
		},
		{
			name: "club types missing collection",
			path: clubTypesPath,
			body: `{"types": []}`,
			call: func(c *Client) error {
				_, err := c.ClubTypes(context.Background(), NewCredential("x"))
				return err
			},
		},
		{
			name: "player clubs not an array",
			path: playerClubsPath,
			body: `null`,
			call: func(c *Client) error {
				_, err := c.PlayerClubs(context.Background(), NewCredential("x"))
				return err
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			client, _ := newTestClient(t, map[string]func(w http.ResponseWriter){
				test.path: jsonBody(test.body),
			})
			err := test.call(client)
			require.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestNoCredential(t *testing.T) {
	client, fake := newTestClient(t, nil)
	_, err := client.RoundSummaries(context.Background(), Credential{})
	require.Error(t, err)
	require.Empty(t, fake.requests)
}

type memoryOutput struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memoryOutput) Write(id, contents string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = contents
}

func TestDumpRedactsCredential(t *testing.T) {
	fake := &fakeGarmin{routes: map[string]func(w http.ResponseWriter){
		summaryPath: jsonBody(`{"scorecardSummaries": []}`),
	}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	output := &memoryOutput{files: map[string]string{}}
	client, err := NewClient(ClientOptions{BaseUrl: server.URL, InstrumentOutput: output})
	require.NoError(t, err)

	_, err = client.RoundSummaries(context.Background(), NewCredential("supersecret"))
	require.NoError(t, err)

	require.Len(t, output.files, 1)
	for _, contents := range output.files {
		require.NotContains(t, contents, "supersecret")
		require.Contains(t, contents, "scorecardSummaries")
		require.Contains(t, contents, "<NO BODY>")
	}
}
