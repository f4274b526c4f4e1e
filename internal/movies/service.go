package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/vmunix/cinegate/internal/cache"
	"github.com/vmunix/cinegate/internal/tmdb"
)

// recommendationLimit caps the recommendations slice in a bundle.
const recommendationLimit = 5

const defaultLanguage = "en-US"

// RecommendationsPolicy selects how a failed recommendations fetch is
// handled. The policy is fixed per deployment and never mixed per request.
type RecommendationsPolicy int

const (
	// RecommendationsRequired fails the whole lookup when the
	// recommendations fetch fails.
	RecommendationsRequired RecommendationsPolicy = iota

	// RecommendationsBestEffort degrades gracefully: the bundle is served
	// with an empty recommendations list and the failure is logged.
	RecommendationsBestEffort
)

// ParsePolicy converts a config string to a RecommendationsPolicy.
func ParsePolicy(s string) (RecommendationsPolicy, error) {
	switch s {
	case "required", "":
		return RecommendationsRequired, nil
	case "best_effort":
		return RecommendationsBestEffort, nil
	default:
		return 0, fmt.Errorf("unknown recommendations policy %q", s)
	}
}

// Metadata is the upstream metadata contract the service fans out to.
// Implemented by *tmdb.Client.
type Metadata interface {
	GetMovie(ctx context.Context, tmdbID int64, language string) (*tmdb.Movie, error)
	GetRecommendations(ctx context.Context, tmdbID int64, language string) (*tmdb.Page, error)
	SearchMovies(ctx context.Context, query, language string, page int) (*tmdb.Page, error)
}

// Service orchestrates cache lookup, upstream fan-out, shaping, and the
// cache write-back for movie bundles. All collaborators are injected.
type Service struct {
	meta   Metadata
	cache  cache.Cache
	ttl    time.Duration
	policy RecommendationsPolicy
	logger *slog.Logger
}

// NewService creates an aggregation service.
func NewService(meta Metadata, c cache.Cache, ttl time.Duration, policy RecommendationsPolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		meta:   meta,
		cache:  c,
		ttl:    ttl,
		policy: policy,
		logger: logger,
	}
}

// NormalizeLanguage canonicalizes a BCP 47 language tag, defaulting to
// en-US when empty. Returns ErrInvalidLanguage for unparseable tags.
func NormalizeLanguage(lang string) (string, error) {
	if strings.TrimSpace(lang) == "" {
		return defaultLanguage, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	return tag.String(), nil
}

// bundleKey derives the deterministic cache key for a lookup.
func bundleKey(tmdbID int64, lang string) string {
	return fmt.Sprintf("movie:%d:%s", tmdbID, lang)
}

// GetBundle returns the movie plus its top recommendations, serving from
// cache when a valid entry exists. On a miss both upstream fetches run
// concurrently and must finish before the bundle is assembled; a canceled
// request abandons them without a partial cache write.
func (s *Service) GetBundle(ctx context.Context, tmdbID int64, lang string) (*Bundle, error) {
	if tmdbID <= 0 {
		return nil, ErrInvalidID
	}
	lang, err := NormalizeLanguage(lang)
	if err != nil {
		return nil, err
	}

	key := bundleKey(tmdbID, lang)

	// Cache hits are served as-is, never revalidated upstream.
	if data, ok := s.cache.Get(ctx, key); ok {
		var bundle Bundle
		if err := json.Unmarshal(data, &bundle); err == nil {
			bundle.CacheHit = true
			s.logger.Debug("bundle served from cache", "key", key)
			return &bundle, nil
		}
		s.logger.Warn("discarding undecodable cache entry", "key", key)
	}

	var details *tmdb.Movie
	var recs *tmdb.Page
	var recsErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.meta.GetMovie(gctx, tmdbID, lang)
		if err != nil {
			return fmt.Errorf("details fetch: %w", err)
		}
		details = m
		return nil
	})
	g.Go(func() error {
		p, err := s.meta.GetRecommendations(gctx, tmdbID, lang)
		if err != nil {
			if s.policy == RecommendationsBestEffort {
				recsErr = err
				return nil
			}
			return fmt.Errorf("recommendations fetch: %w", err)
		}
		recs = p
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("bundle fetch failed", "tmdb_id", tmdbID, "language", lang, "error", err)
		return nil, err
	}
	if recsErr != nil {
		s.logger.Warn("serving bundle without recommendations",
			"tmdb_id", tmdbID, "language", lang, "error", recsErr)
	}

	bundle := &Bundle{
		Movie:           shapeDetails(details),
		Recommendations: shapeRecommendations(recs, recommendationLimit),
		CacheHit:        false,
	}

	if data, err := json.Marshal(bundle); err == nil {
		if !s.cache.Set(ctx, key, data, s.ttl) {
			s.logger.Warn("bundle not cached", "key", key)
		}
	}

	return bundle, nil
}
