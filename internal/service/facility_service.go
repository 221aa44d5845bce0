package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/facility-ops-api/internal/models"
	"github.com/noah-isme/facility-ops-api/pkg/config"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
)

type facilityStore interface {
	GetByID(ctx context.Context, id string) (*models.Facility, error)
	GetCurrent(ctx context.Context) (*models.Facility, error)
}

// FacilityService resolves the facility scoping the current deployment and
// keeps the result cached under a fixed key. Outside production a fixed
// development facility is substituted when resolution fails.
type FacilityService struct {
	store  facilityStore
	cache  *CacheService
	cfg    config.FacilityConfig
	env    string
	logger *zap.Logger
}

// NewFacilityService constructs the service.
func NewFacilityService(store facilityStore, cache *CacheService, cfg config.FacilityConfig, env string, logger *zap.Logger) *FacilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacilityService{store: store, cache: cache, cfg: cfg, env: env, logger: logger}
}

// Resolve returns the current facility snapshot, consulting the cache first.
func (s *FacilityService) Resolve(ctx context.Context) (*models.FacilitySnapshot, error) {
	var snapshot models.FacilitySnapshot
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, s.cfg.CacheKey, &snapshot)
		if err == nil && hit {
			return &snapshot, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh re-resolves the facility and rewrites the cached snapshot.
// Concurrent callers may each run the resolution; the last write wins, which
// is harmless because every resolution yields the same facility.
func (s *FacilityService) Refresh(ctx context.Context) (*models.FacilitySnapshot, error) {
	facility, err := s.store.GetCurrent(ctx)
	if err != nil {
		if s.env == config.EnvProduction {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNoFacility, "no active facility configured")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve facility")
		}
		s.logger.Warn("facility resolution failed, using development fallback", zap.Error(err))
		snapshot := s.fallbackSnapshot()
		s.persist(ctx, snapshot)
		return snapshot, nil
	}

	snapshot := &models.FacilitySnapshot{
		Facility:   *facility,
		Fallback:   false,
		ResolvedAt: time.Now().UTC(),
	}
	s.persist(ctx, snapshot)
	return snapshot, nil
}

func (s *FacilityService) fallbackSnapshot() *models.FacilitySnapshot {
	return &models.FacilitySnapshot{
		Facility: models.Facility{
			ID:     s.cfg.DevFallbackID,
			Name:   s.cfg.DevFallbackName,
			Active: true,
		},
		Fallback:   true,
		ResolvedAt: time.Now().UTC(),
	}
}

func (s *FacilityService) persist(ctx context.Context, snapshot *models.FacilitySnapshot) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, s.cfg.CacheKey, snapshot, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache facility snapshot", zap.Error(err))
	}
}
