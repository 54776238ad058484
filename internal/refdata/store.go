// Package refdata resolves the reference constants of a policy year. Lookups
// read through a Redis cache to the reference_constants table and fall back to
// the schedules compiled into the binary.
package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "visa-eligibility-workers/internal/common/errors"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/metrics"
	"visa-eligibility-workers/internal/eligibility/policy"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Sources reported to the lookup counter.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
	SourceEmbedded = "embedded"
)

const (
	cacheKeyPrefix = "refconst:"
	preloadLimit   = 4

	selectConstants = `SELECT version, year, gni_per_capita, minimum_hourly_wage, minimum_annual_wage, median_income FROM reference_constants WHERE year = $1`
)

// Options configures a Store.
type Options struct {
	CacheTTL time.Duration
	// AllowFallback lets the embedded catalog answer when neither the cache
	// nor the table has the year.
	AllowFallback bool
}

// Store is safe for concurrent use. db and cache are optional; a nil layer is skipped.
type Store struct {
	db       *sql.DB
	cache    *redis.Client
	fallback *policy.ConstantsCatalog
	opts     Options
	logger   logger.Logger
}

func NewStore(db *sql.DB, cache *redis.Client, fallback *policy.ConstantsCatalog, opts Options, log logger.Logger) *Store {
	return &Store{
		db:       db,
		cache:    cache,
		fallback: fallback,
		opts:     opts,
		logger:   log.WithFields(map[string]interface{}{"component": "refdata"}),
	}
}

// CacheKey is the Redis key holding the JSON schedule of year.
func CacheKey(year int) string {
	return cacheKeyPrefix + strconv.Itoa(year)
}

// Lookup returns the validated schedule of year.
func (s *Store) Lookup(ctx context.Context, year int) (policy.ReferenceConstants, error) {
	if rc, ok := s.fromCache(ctx, year); ok {
		metrics.RecordConstantsLookup(SourceCache)
		return rc, nil
	}

	var dbErr error
	if s.db != nil {
		rc, found, err := s.fromDatabase(ctx, year)
		switch {
		case err != nil:
			dbErr = err
			s.logger.Warn("reference constants query failed", map[string]interface{}{
				"policyYear": year,
				"error":      err.Error(),
			})
		case found:
			if err := rc.Validate(); err != nil {
				return policy.ReferenceConstants{}, err
			}
			s.store(ctx, rc)
			metrics.RecordConstantsLookup(SourceDatabase)
			return rc, nil
		}
	}

	if s.opts.AllowFallback && s.fallback != nil {
		if rc, err := s.fallback.ForYear(year); err == nil {
			metrics.RecordConstantsLookup(SourceEmbedded)
			return rc, nil
		}
	}
	if dbErr != nil {
		return policy.ReferenceConstants{}, apperrors.NewQueryExecutionFailedError("reference_constants", dbErr)
	}
	return policy.ReferenceConstants{}, apperrors.NewConfigurationError(year,
		fmt.Sprintf("no reference constants for policy year %d", year))
}

// Preload resolves several years concurrently so the cache is warm before jobs
// arrive. The first failure cancels the rest.
func (s *Store) Preload(ctx context.Context, years []int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)
	for _, year := range years {
		year := year
		g.Go(func() error {
			if _, err := s.Lookup(ctx, year); err != nil {
				return fmt.Errorf("preload %d: %w", year, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Store) fromCache(ctx context.Context, year int) (policy.ReferenceConstants, bool) {
	if s.cache == nil {
		return policy.ReferenceConstants{}, false
	}
	val, err := s.cache.Get(ctx, CacheKey(year)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("reference constants cache read failed", map[string]interface{}{
				"policyYear": year,
				"error":      err.Error(),
			})
		}
		return policy.ReferenceConstants{}, false
	}

	var rc policy.ReferenceConstants
	if err := json.Unmarshal([]byte(val), &rc); err != nil || rc.Validate() != nil {
		s.logger.Debug("discarding unusable cached reference constants", map[string]interface{}{
			"policyYear": year,
		})
		return policy.ReferenceConstants{}, false
	}
	return rc, true
}

func (s *Store) fromDatabase(ctx context.Context, year int) (policy.ReferenceConstants, bool, error) {
	var (
		rc     policy.ReferenceConstants
		median []byte
	)
	err := s.db.QueryRowContext(ctx, selectConstants, year).Scan(
		&rc.Version, &rc.Year, &rc.GNIPerCapita, &rc.MinimumHourlyWage, &rc.MinimumAnnualWage, &median,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return policy.ReferenceConstants{}, false, nil
		}
		return policy.ReferenceConstants{}, false, err
	}

	incomes, err := decodeMedianIncome(median)
	if err != nil {
		return policy.ReferenceConstants{}, false, err
	}
	rc.MedianHouseholdIncome = incomes
	return rc, true, nil
}

// decodeMedianIncome reads the JSON object {"1": amount, "2": amount, ...}.
func decodeMedianIncome(raw []byte) (map[int]int64, error) {
	var bySize map[string]int64
	if err := json.Unmarshal(raw, &bySize); err != nil {
		return nil, fmt.Errorf("decode median_income: %w", err)
	}
	out := make(map[int]int64, len(bySize))
	for k, v := range bySize {
		size, err := strconv.Atoi(k)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("decode median_income: bad household size %q", k)
		}
		out[size] = v
	}
	return out, nil
}

func (s *Store) store(ctx context.Context, rc policy.ReferenceConstants) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rc)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, CacheKey(rc.Year), data, s.opts.CacheTTL).Err(); err != nil {
		s.logger.Warn("reference constants cache write failed", map[string]interface{}{
			"policyYear": rc.Year,
			"error":      err.Error(),
		})
	}
}
