// Package stats serves the public landing-page counters.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

const snapshotKey = "public"

type Snapshot struct {
	ActiveHubs        int64                       `json:"active_hubs"`
	ActiveFarmers     int64                       `json:"active_farmers"`
	BatchesByStatus   map[enums.BatchStatus]int64 `json:"batches_by_status"`
	DistributedOrders int64                       `json:"distributed_orders"`
	GeneratedAt       time.Time                   `json:"generated_at"`
}

type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type service struct {
	repo  Repository
	cache *Cache
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds the stats service. cache may be nil, in which case every
// call hits the database.
func NewService(repo Repository, cache *Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, cache: cache, logg: logg, now: time.Now}, nil
}

// Snapshot serves cached counters when present. Cache failures are logged and
// fall through to the database.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.cache != nil {
		var cached Snapshot
		hit, err := s.cache.Get(ctx, snapshotKey, &cached)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stats cache read failed")
			if errors.Is(err, errUndecodable) {
				s.dropSnapshot(ctx)
			}
		}
		if hit {
			return &cached, nil
		}
	}

	snap, err := s.compute(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute stats")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotKey, snap); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stats cache write failed")
		}
	}
	return snap, nil
}

// dropSnapshot expires the cached snapshot immediately.
func (s *service) dropSnapshot(ctx context.Context) {
	if _, err := s.cache.Expire(ctx, snapshotKey, 0); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "stats cache drop failed")
	}
}

func (s *service) compute(ctx context.Context) (*Snapshot, error) {
	hubs, err := s.repo.CountActiveHubs(ctx)
	if err != nil {
		return nil, err
	}
	farmers, err := s.repo.CountActiveFarmers(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.repo.CountBatchesByStatus(ctx)
	if err != nil {
		return nil, err
	}
	distributed, err := s.repo.CountOrders(ctx, enums.OrderStatusDistributed)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ActiveHubs:        hubs,
		ActiveFarmers:     farmers,
		BatchesByStatus:   batches,
		DistributedOrders: distributed,
		GeneratedAt:       s.now().UTC(),
	}, nil
}
