package movies

import (
	"context"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// SearchSort selects the ordering of a search result page.
type SearchSort int

const (
	// SortUpstream keeps TMDB's own ordering.
	SortUpstream SearchSort = iota

	// SortRelevance re-ranks the page by title similarity to the query.
	SortRelevance
)

// SearchResult is a passthrough TMDB search page.
type SearchResult struct {
	Page         int           `json:"page"`
	Results      []SearchEntry `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// SearchEntry is one search hit, reduced to the same subset as a
// recommendation entry.
type SearchEntry struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path"`
}

// Search proxies a TMDB movie search. With SortRelevance the returned page
// is stably re-ranked by Jaro-Winkler similarity between the query and each
// title; ties keep the upstream order.
func (s *Service) Search(ctx context.Context, query, lang string, page int, sortBy SearchSort) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}
	lang, err := NormalizeLanguage(lang)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	upstream, err := s.meta.SearchMovies(ctx, query, lang, page)
	if err != nil {
		s.logger.Error("search failed", "query", query, "language", lang, "error", err)
		return nil, err
	}

	result := &SearchResult{
		Page:         upstream.Page,
		Results:      make([]SearchEntry, 0, len(upstream.Results)),
		TotalPages:   upstream.TotalPages,
		TotalResults: upstream.TotalResults,
	}
	for _, m := range upstream.Results {
		result.Results = append(result.Results, SearchEntry{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			PosterPath:  m.PosterPath,
		})
	}

	if sortBy == SortRelevance {
		rankByRelevance(query, result.Results)
	}

	return result, nil
}

// rankByRelevance stably sorts entries by descending title similarity.
// Jaro-Winkler favors prefix matches, which suits movie titles.
func rankByRelevance(query string, entries []SearchEntry) {
	q := strings.ToLower(query)
	type scored struct {
		entry SearchEntry
		score float32
	}
	ranked := make([]scored, len(entries))
	for i, e := range entries {
		ranked[i] = scored{
			entry: e,
			score: edlib.JaroWinklerSimilarity(q, strings.ToLower(e.Title)),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i, r := range ranked {
		entries[i] = r.entry
	}
}
