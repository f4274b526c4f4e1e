// Package movies serves composite movie lookups with read-through caching.
package movies

import "github.com/vmunix/cinegate/internal/tmdb"

// MovieDetails is the shaped field subset of a TMDB details payload.
type MovieDetails struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Overview     string       `json:"overview"`
	Tagline      string       `json:"tagline,omitempty"`
	ReleaseDate  string       `json:"release_date"`
	VoteAverage  float64      `json:"vote_average"`
	VoteCount    int          `json:"vote_count"`
	Runtime      int          `json:"runtime"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path"`
	Genres       []tmdb.Genre `json:"genres"`
}

// Recommendation is the shaped field subset of a recommendations entry.
type Recommendation struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path"`
}

// Bundle is the composite movie-plus-recommendations response.
type Bundle struct {
	Movie           MovieDetails     `json:"movie"`
	Recommendations []Recommendation `json:"recommendations"`
	CacheHit        bool             `json:"cache_hit"`
}

func shapeDetails(m *tmdb.Movie) MovieDetails {
	return MovieDetails{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		Tagline:      m.Tagline,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
		Runtime:      m.Runtime,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Genres:       m.Genres,
	}
}

// shapeRecommendations reduces a recommendations page to its first limit
// entries, preserving the upstream ordering.
func shapeRecommendations(page *tmdb.Page, limit int) []Recommendation {
	recs := []Recommendation{}
	if page == nil {
		return recs
	}
	for i, m := range page.Results {
		if i >= limit {
			break
		}
		recs = append(recs, Recommendation{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			PosterPath:  m.PosterPath,
		})
	}
	return recs
}
