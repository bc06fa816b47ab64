package service

import (
	"context"
	"time"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

// creditInventory is the only inventory write in the engine. It runs inside
// CompleteDonation's transaction.
func (s *Service) creditInventory(ctx context.Context, tx store.Tx, d *models.DonationRecord, now time.Time) (*models.BloodInventory, error) {
	inv, err := tx.LockOrCreateInventory(ctx, d.HospitalID, d.BloodGroup, s.threshold, now)
	if err != nil {
		return nil, err
	}
	if err := inv.Credit(d.Units, "donation:"+d.ID.String(), now); err != nil {
		return nil, err
	}
	if err := tx.UpdateInventory(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInventory returns stock rows for one hospital, or for every hospital
// when hospitalID is nil, each with its derived stock status.
func (s *Service) GetInventory(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error) {
	if !hospitalID.IsNil() {
		if _, err := s.store.GetHospital(ctx, hospitalID); err != nil {
			return nil, translate(notFound(err, "hospital"))
		}
	}

	if s.cache != nil {
		rows, ok, err := s.cache.Get(ctx, hospitalID)
		switch {
		case err != nil:
			s.incrementCacheLookup("error")
			s.logger.WarnContext(ctx, "inventory cache read failed",
				"error", err,
				"hospital_id", hospitalID,
				"request_id", requestcontext.RequestID(ctx),
			)
		case ok:
			s.incrementCacheLookup("hit")
			return rows, nil
		default:
			s.incrementCacheLookup("miss")
		}
	}

	v, err, _ := s.inventory.Do(hospitalID.String(), func() (any, error) {
		gen := s.inventoryGen.Load()
		rows, err := s.store.ListInventory(ctx, hospitalID)
		if err != nil {
			return nil, err
		}
		s.fillInventoryCache(ctx, hospitalID, rows, gen)
		return rows, nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return v.([]models.InventoryRow), nil
}

// fillInventoryCache stores rows read at generation gen. Rows read before a
// credit committed are never left behind in the cache.
func (s *Service) fillInventoryCache(ctx context.Context, hospitalID id.HospitalID, rows []models.InventoryRow, gen uint64) {
	if s.cache == nil || s.inventoryGen.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, hospitalID, rows); err != nil {
		s.logger.WarnContext(ctx, "inventory cache write failed",
			"error", err,
			"hospital_id", hospitalID,
		)
		return
	}
	if s.inventoryGen.Load() != gen {
		s.dropInventoryCache(ctx, hospitalID)
	}
}

// invalidateInventory runs after a credit commits. Reads already in flight
// are detached so later callers go back to the store.
func (s *Service) invalidateInventory(ctx context.Context, hospitalID id.HospitalID) {
	s.inventoryGen.Add(1)
	s.inventory.Forget(hospitalID.String())
	s.inventory.Forget(id.HospitalID{}.String())
	s.dropInventoryCache(ctx, hospitalID)
}

func (s *Service) dropInventoryCache(ctx context.Context, hospitalID id.HospitalID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, hospitalID); err != nil {
		s.logger.WarnContext(ctx, "inventory cache invalidation failed",
			"error", err,
			"hospital_id", hospitalID,
		)
	}
}
