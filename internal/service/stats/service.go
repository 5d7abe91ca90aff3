package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/repository"
	"github.com/clinicalos/clinic-api/internal/service/authz"
)

// Dashboard numbers tolerate slight staleness; a short in-process cache keeps
// repeated widget refreshes off the database.
const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
)

type Service struct {
	statsRepo repository.StatsRepository
	policy    *authz.Service
	cache     *cache.Cache
}

func NewService(statsRepo repository.StatsRepository, policy *authz.Service) *Service {
	return &Service{
		statsRepo: statsRepo,
		policy:    policy,
		cache:     cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) Overview(ctx context.Context, p *model.Principal) (*model.OverviewStats, error) {
	key := fmt.Sprintf("overview:%s", p.TenantID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.OverviewStats), nil
	}

	var stats *model.OverviewStats
	var err error
	if p.IsSuperAdmin {
		stats, err = s.platformOverview(ctx)
	} else {
		stats, err = s.clinicOverview(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, stats)
	return stats, nil
}

func (s *Service) platformOverview(ctx context.Context) (*model.OverviewStats, error) {
	tenants, err := s.statsRepo.CountTenants(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.statsRepo.CountPatients(ctx, nil)
	if err != nil {
		return nil, err
	}
	admins, err := s.statsRepo.CountClinicAdmins(ctx)
	if err != nil {
		return nil, err
	}

	return &model.OverviewStats{
		TotalTenants:  tenants,
		TotalPatients: patients,
		TotalStaff:    admins,
		IsSuperAdmin:  true,
	}, nil
}

func (s *Service) clinicOverview(ctx context.Context, p *model.Principal) (*model.OverviewStats, error) {
	patients, err := s.statsRepo.CountPatients(ctx, &p.TenantID)
	if err != nil {
		return nil, err
	}
	staff, err := s.statsRepo.CountUsers(ctx, p.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.statsRepo.CountAppointmentsBetween(ctx, p.TenantID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &model.OverviewStats{
		TotalPatients:     patients,
		TotalStaff:        staff,
		TodayAppointments: today,
	}, nil
}

// Growth reports monthly clinic signups, operator-only.
func (s *Service) Growth(ctx context.Context, p *model.Principal) ([]*model.GrowthPoint, error) {
	if err := s.policy.Authorize(p, authz.ActionSuperAdmin, uuid.Nil); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get("growth"); ok {
		return cached.([]*model.GrowthPoint), nil
	}

	points, err := s.statsRepo.TenantGrowth(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault("growth", points)
	return points, nil
}
