package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harryji168/nba-api/internal/cache"
)

const seasonsURL = "https://api.test/seasons"

func newTestSeasonService(fetcher Fetcher, dir string) *SeasonService {
	fs := cache.NewFileStore(dir, true, testLogger())
	return NewSeasonService(fetcher, fs, seasonsURL, testLogger())
}

func writeSeasonsArtifact(t *testing.T, dir string, body []byte) {
	t.Helper()
	path := filepath.Join(dir, "json", "seasons.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, body, 0o644))
}

func TestGetSeasonsFromCache(t *testing.T) {
	dir := t.TempDir()
	writeSeasonsArtifact(t, dir, []byte(`{"response":[2020,2021,2022]}`))

	fetcher := &fakeFetcher{}
	svc := newTestSeasonService(fetcher, dir)

	seasons, err := svc.GetSeasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021, 2022}, seasons)
	assert.Empty(t, fetcher.calls, "Cache hit should not touch the endpoint")
}

func TestGetSeasonsCachedRateLimitFailsHard(t *testing.T) {
	dir := t.TempDir()
	writeSeasonsArtifact(t, dir, []byte(`{"message":"You have exceeded the rate limit per minute"}`))

	svc := newTestSeasonService(&fakeFetcher{}, dir)

	_, err := svc.GetSeasons(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestGetSeasonsUnparseableCacheFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeSeasonsArtifact(t, dir, []byte(`{not json`))

	fetcher := &fakeFetcher{bodies: map[string][]byte{
		seasonsURL: []byte(`{"response":[2015]}`),
	}}
	svc := newTestSeasonService(fetcher, dir)

	seasons, err := svc.GetSeasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2015}, seasons)
	assert.Len(t, fetcher.calls, 1)
}

func TestGetSeasonsFetchSavesCache(t *testing.T) {
	dir := t.TempDir()

	fetcher := &fakeFetcher{bodies: map[string][]byte{
		seasonsURL: []byte(`{"response":[2019,2020]}`),
	}}
	svc := newTestSeasonService(fetcher, dir)

	seasons, err := svc.GetSeasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2020}, seasons)

	body, err := os.ReadFile(filepath.Join(dir, "json", "seasons.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":[2019,2020]}`, string(body), "Raw body should be cached verbatim")

	// A second call reads the artifact instead of fetching again.
	seasons, err = svc.GetSeasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2020}, seasons)
	assert.Len(t, fetcher.calls, 1)
}

func TestGetSeasonsFetchErrorWrapped(t *testing.T) {
	wantErr := fmt.Errorf("connection refused")
	fetcher := &fakeFetcher{errs: map[string]error{seasonsURL: wantErr}}
	svc := newTestSeasonService(fetcher, t.TempDir())

	_, err := svc.GetSeasons(context.Background())
	require.ErrorIs(t, err, wantErr)
	assert.Contains(t, err.Error(), "error fetching data from the API")
}

func TestGetSeasonsEmptyBody(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{seasonsURL: {}}}
	svc := newTestSeasonService(fetcher, t.TempDir())

	_, err := svc.GetSeasons(context.Background())
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGetSeasonsMissingResponseKey(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		seasonsURL: []byte(`{"message":"ok"}`),
	}}
	svc := newTestSeasonService(fetcher, dir)

	seasons, err := svc.GetSeasons(context.Background())
	require.NoError(t, err)
	assert.Nil(t, seasons, "Absent response key yields no seasons, not an error")
	assert.NoFileExists(t, filepath.Join(dir, "json", "seasons.json"))
}

func TestGetSeasonsLiveRateLimit(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		seasonsURL: []byte(`{"message":"You have exceeded the rate limit per day"}`),
	}}
	svc := newTestSeasonService(fetcher, t.TempDir())

	_, err := svc.GetSeasons(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)
}
