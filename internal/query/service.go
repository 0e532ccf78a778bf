// internal/query/service.go
package query

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"storefinder/internal/assemble"
	"storefinder/internal/common/cache"
	stderrors "storefinder/internal/common/errors"
	"storefinder/internal/common/logger"
	"storefinder/internal/common/metrics"
	"storefinder/internal/inference"
	"storefinder/internal/scoring"
)

// Scorer is the slice of the scoring pipeline the service depends on.
type Scorer interface {
	Score(ctx context.Context, query string) ([]scoring.ScoredStore, error)
}

// Service is the query entry point. Per call it validates the query, runs
// the scoring pipeline, assembles the grouped result and maps every failure
// to a user-facing response. It keeps no cross-call state.
type Service struct {
	scorer    Scorer
	assembler *assemble.Assembler
	cache     *cache.RedisClient
	cacheTTL  time.Duration
	logger    logger.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithCache enables response caching keyed by the normalized query.
func WithCache(c *cache.RedisClient, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewService(scorer Scorer, assembler *assemble.Assembler, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		scorer:    scorer,
		assembler: assembler,
		logger: log.With(map[string]interface{}{
			"component": "query-service",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessQuery handles one query end to end. It never returns an error to
// the transport layer; all failures surface as an error-kind Response.
func (s *Service) ProcessQuery(ctx context.Context, rawQuery string) *Response {
	start := time.Now()

	query := strings.TrimSpace(rawQuery)
	if query == "" {
		// No inference calls for blank input.
		stdErr := stderrors.NewEmptyQueryError()
		s.logger.Debug("blank query rejected", map[string]interface{}{
			"errorCode": string(stdErr.Code),
		})
		metrics.QueriesProcessed.WithLabelValues(string(KindNeedInput)).Inc()
		return &Response{Kind: KindNeedInput, IntroMessage: msgNeedInput}
	}

	if resp := s.cacheGet(ctx, query); resp != nil {
		metrics.QueriesProcessed.WithLabelValues(string(resp.Kind)).Inc()
		return resp
	}

	scored, err := s.scorer.Score(ctx, query)
	if err != nil {
		stdErr := standardErrorFor(err)
		s.logger.WithError(err).Error("query scoring failed", map[string]interface{}{
			"errorCode":     string(stdErr.Code),
			"errorCategory": stderrors.GetErrorCategory(stdErr.Code),
			"retryable":     stdErr.Retryable,
		})
		metrics.QueryFailures.WithLabelValues(string(stdErr.Code)).Inc()
		metrics.QueriesProcessed.WithLabelValues(string(KindError)).Inc()
		return &Response{Kind: KindError, IntroMessage: msgError}
	}

	groups, truncated := s.assembler.Assemble(scored)

	var resp *Response
	if len(groups) == 0 {
		resp = &Response{Kind: KindNoMatches, IntroMessage: msgNoMatches}
	} else {
		resp = &Response{
			Kind:         KindMatches,
			IntroMessage: msgMatches,
			StoreGroups:  groups,
			Truncated:    truncated,
		}
	}

	s.cacheSet(ctx, query, resp)

	s.logger.Info("query processed", map[string]interface{}{
		"kind":       string(resp.Kind),
		"groupCount": len(groups),
		"durationMs": time.Since(start).Milliseconds(),
	})
	metrics.QueriesProcessed.WithLabelValues(string(resp.Kind)).Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	return resp
}

// cacheGet returns the cached response for query, or nil on miss. Cache
// trouble degrades to a miss, never to a query failure.
func (s *Service) cacheGet(ctx context.Context, query string) *Response {
	if s.cache == nil {
		return nil
	}

	val, err := s.cache.Get(ctx, cacheKey(query))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(stderrors.NewCacheUnavailableError(err)).Warn("response cache read failed", nil)
		}
		metrics.CacheMisses.Inc()
		return nil
	}

	var resp Response
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		metrics.CacheMisses.Inc()
		return nil
	}

	metrics.CacheHits.Inc()
	return &resp
}

func (s *Service) cacheSet(ctx context.Context, query string, resp *Response) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(query), string(data), s.cacheTTL); err != nil {
		s.logger.WithError(stderrors.NewCacheUnavailableError(err)).Warn("response cache write failed", nil)
	}
}

func cacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(query)))
	return "storefinder:response:" + hex.EncodeToString(sum[:])
}

// standardErrorFor maps a scoring failure to the structured error carried in
// logs and metrics.
func standardErrorFor(err error) *stderrors.StandardError {
	switch {
	case errors.Is(err, inference.ErrClassifyTimeout):
		return stderrors.NewClassifyTimeoutError()
	case errors.Is(err, inference.ErrClassifyFailed):
		return stderrors.NewClassifyFailedError(err)
	case errors.Is(err, inference.ErrEmbedTimeout):
		return stderrors.NewEmbedTimeoutError()
	case errors.Is(err, inference.ErrEmbedFailed):
		return stderrors.NewEmbedFailedError(err)
	case errors.Is(err, inference.ErrMalformedResponse):
		return stderrors.NewMalformedInferenceResponseError(err)
	case errors.Is(err, inference.ErrInitFailed):
		return stderrors.NewInferenceInitFailedError(err)
	default:
		return &stderrors.StandardError{
			Code:      "SCORING_FAILED",
			Message:   "Scoring pipeline failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
}
