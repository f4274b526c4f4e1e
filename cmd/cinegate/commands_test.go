package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/cinegate/internal/tmdb"
)

func TestMovieLine(t *testing.T) {
	m := &tmdb.Movie{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-30",
		VoteAverage: 8.2,
	}

	line := movieLine(m)
	assert.Contains(t, line, "603")
	assert.Contains(t, line, "The Matrix")
	assert.Contains(t, line, "1999")
	assert.Contains(t, line, "8.2")
}

func TestMovieLine_NoReleaseDate(t *testing.T) {
	m := &tmdb.Movie{ID: 1, Title: "Untitled", VoteAverage: 6.5}

	line := movieLine(m)
	// Year column is left blank rather than printing a zero
	assert.Equal(t, []string{"1", "Untitled", "6.5"}, strings.Fields(line))
}

func TestMovieResponse_DecodesBundle(t *testing.T) {
	body := `{
		"movie": {"id": 603, "title": "The Matrix", "release_date": "1999-03-30", "poster_path": "/matrix.jpg", "vote_average": 8.2},
		"recommendations": [{"id": 604, "title": "The Matrix Reloaded", "release_date": "2003-05-15"}],
		"cache_hit": true
	}`

	var resp movieResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, int64(603), resp.Movie.ID)
	assert.Equal(t, 1999, resp.Movie.Year())
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/matrix.jpg", resp.Movie.PosterURL("w342"))
	assert.True(t, resp.CacheHit)

	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, 2003, resp.Recommendations[0].Year())
}
