package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/hotstore"
	"github.com/picogrid/convoy-tracker/pkg/strategy"
)

type convoyCold interface {
	InsertConvoy(ctx context.Context, c *domain.Convoy) error
	GetConvoy(ctx context.Context, convoyID uuid.UUID) (*domain.Convoy, error)
	UpdateConvoyStatus(ctx context.Context, convoyID uuid.UUID, status domain.ConvoyStatus, missionStart, missionEnd *time.Time) error
	UpdateConvoyRoster(ctx context.Context, convoyID uuid.UUID, droneIDs []uuid.UUID) error
	UpsertActiveConvoy(ctx context.Context, c *domain.Convoy) error
	RemoveActiveConvoy(ctx context.Context, status domain.ConvoyStatus, convoyID uuid.UUID) error
	ListActiveConvoyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ConvoyRepository manages convoy rows, the active-convoys projection,
// and the hot summary and roster projections.
type ConvoyRepository struct {
	cold convoyCold
	hot  *hotstore.Client
	log  *zap.Logger
}

func NewConvoyRepository(cold *coldstore.Store, hot *hotstore.Client, log *zap.Logger) *ConvoyRepository {
	return &ConvoyRepository{cold: cold, hot: hot, log: log.Named("convoys")}
}

// Create persists a new convoy. Write-through: the cold row lands first,
// then the hot summary is seeded best-effort.
func (r *ConvoyRepository) Create(ctx context.Context, c *domain.Convoy) error {
	key := hotstore.ConvoySummaryKey(c.ConvoyID.String())

	cold := func(ctx context.Context) error {
		if err := r.cold.InsertConvoy(ctx, c); err != nil {
			return err
		}
		if c.Status == domain.ConvoyActive {
			return r.cold.UpsertActiveConvoy(ctx, c)
		}
		return nil
	}

	var hot strategy.WriteFn
	if r.hot != nil {
		hot = func(ctx context.Context) error {
			if err := hotstore.SetJSON(ctx, r.hot, key, *c, r.hot.TTL().ConvoySummary); err != nil {
				return err
			}
			return r.addRosterMembers(ctx, c.ConvoyID, c.DroneIDs)
		}
	}

	return strategy.WriteValue(ctx, strategy.WriteThrough, r.log, key, hot, cold, nil)
}

// GetByID reads a convoy, cache-first through the hot summary.
func (r *ConvoyRepository) GetByID(ctx context.Context, convoyID uuid.UUID) (*domain.Convoy, error) {
	key := hotstore.ConvoySummaryKey(convoyID.String())

	var cache strategy.CacheFn[domain.Convoy]
	if r.hot != nil {
		cache = func(ctx context.Context) (*domain.Convoy, error) {
			return hotstore.GetJSON[domain.Convoy](ctx, r.hot, key)
		}
	}

	store := func(ctx context.Context) (domain.Convoy, error) {
		c, err := r.cold.GetConvoy(ctx, convoyID)
		if err != nil {
			return domain.Convoy{}, err
		}
		return *c, nil
	}

	populate := func(ctx context.Context, c domain.Convoy) error {
		if r.hot == nil {
			return nil
		}
		return hotstore.SetJSON(ctx, r.hot, key, c, r.hot.TTL().ConvoySummary)
	}

	c, err := strategy.ReadValue(ctx, strategy.ReadCacheFirst, r.log, key, cache, store, populate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActive resolves the active-convoys projection into full rows.
// Projection entries that no longer resolve are skipped with a warning
// rather than failing the whole read.
func (r *ConvoyRepository) GetActive(ctx context.Context) ([]domain.Convoy, error) {
	ids, err := r.cold.ListActiveConvoyIDs(ctx)
	if err != nil {
		return nil, err
	}
	convoys := make([]domain.Convoy, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			if coldstore.IsNotFound(err) {
				r.log.Warn("active projection references missing convoy",
					zap.String("convoy_id", id.String()))
				continue
			}
			return nil, err
		}
		convoys = append(convoys, *c)
	}
	return convoys, nil
}

// UpdateStatus advances the mission lifecycle. Illegal transitions are
// rejected; mission_start and mission_end are stamped on the ACTIVE and
// terminal edges. The active-convoys projection tracks the change.
func (r *ConvoyRepository) UpdateStatus(ctx context.Context, convoyID uuid.UUID, status domain.ConvoyStatus) (*domain.Convoy, error) {
	c, err := r.GetByID(ctx, convoyID)
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransitionTo(status) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("convoy status cannot change from %s to %s", c.Status, status))
	}

	now := time.Now().UTC()
	previous := c.Status
	c.Status = status
	if status == domain.ConvoyActive && c.MissionStart == nil {
		c.MissionStart = &now
	}
	if status.IsTerminal() && c.MissionEnd == nil {
		c.MissionEnd = &now
	}

	key := hotstore.ConvoySummaryKey(convoyID.String())

	cold := func(ctx context.Context) error {
		if err := r.cold.UpdateConvoyStatus(ctx, convoyID, c.Status, c.MissionStart, c.MissionEnd); err != nil {
			return err
		}
		if previous == domain.ConvoyActive && status != domain.ConvoyActive {
			if err := r.cold.RemoveActiveConvoy(ctx, previous, convoyID); err != nil {
				return err
			}
		}
		if status == domain.ConvoyActive {
			return r.cold.UpsertActiveConvoy(ctx, c)
		}
		return nil
	}

	var hot strategy.WriteFn
	if r.hot != nil {
		hot = func(ctx context.Context) error {
			return hotstore.SetJSON(ctx, r.hot, key, *c, r.hot.TTL().ConvoySummary)
		}
	}

	if err := strategy.WriteValue(ctx, strategy.WriteThrough, r.log, key, hot, cold, nil); err != nil {
		return nil, err
	}
	r.log.Info("convoy status changed",
		zap.String("convoy_id", convoyID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	return c, nil
}

// AddDrone appends an asset to the convoy roster in both tiers.
func (r *ConvoyRepository) AddDrone(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.Convoy, error) {
	c, err := r.GetByID(ctx, convoyID)
	if err != nil {
		return nil, err
	}
	for _, id := range c.DroneIDs {
		if id == droneID {
			return c, nil
		}
	}
	c.DroneIDs = append(c.DroneIDs, droneID)
	c.DroneCount = len(c.DroneIDs)
	if err := r.writeRoster(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveDrone drops an asset from the convoy roster in both tiers.
func (r *ConvoyRepository) RemoveDrone(ctx context.Context, convoyID, droneID uuid.UUID) (*domain.Convoy, error) {
	c, err := r.GetByID(ctx, convoyID)
	if err != nil {
		return nil, err
	}
	kept := c.DroneIDs[:0]
	removed := false
	for _, id := range c.DroneIDs {
		if id == droneID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return c, nil
	}
	c.DroneIDs = kept
	c.DroneCount = len(c.DroneIDs)
	if err := r.writeRoster(ctx, c); err != nil {
		return nil, err
	}
	if r.hot != nil {
		if err := r.hot.RemoveFromRoster(ctx, convoyID.String(), droneID.String()); err != nil {
			r.log.Warn("hot roster removal failed",
				zap.String("convoy_id", convoyID.String()), zap.Error(err))
		}
	}
	return c, nil
}

func (r *ConvoyRepository) writeRoster(ctx context.Context, c *domain.Convoy) error {
	key := hotstore.RosterKey(c.ConvoyID.String())

	cold := func(ctx context.Context) error {
		if err := r.cold.UpdateConvoyRoster(ctx, c.ConvoyID, c.DroneIDs); err != nil {
			return err
		}
		if c.Status == domain.ConvoyActive {
			// Keep drone_count current in the active projection.
			return r.cold.UpsertActiveConvoy(ctx, c)
		}
		return nil
	}

	var hot strategy.WriteFn
	if r.hot != nil {
		hot = func(ctx context.Context) error {
			if err := r.addRosterMembers(ctx, c.ConvoyID, c.DroneIDs); err != nil {
				return err
			}
			return hotstore.SetJSON(ctx, r.hot,
				hotstore.ConvoySummaryKey(c.ConvoyID.String()), *c, r.hot.TTL().ConvoySummary)
		}
	}

	return strategy.WriteValue(ctx, strategy.WriteThrough, r.log, key, hot, cold, nil)
}

func (r *ConvoyRepository) addRosterMembers(ctx context.Context, convoyID uuid.UUID, droneIDs []uuid.UUID) error {
	if r.hot == nil || len(droneIDs) == 0 {
		return nil
	}
	members := make([]string, len(droneIDs))
	for i, id := range droneIDs {
		members[i] = id.String()
	}
	return r.hot.AddToRoster(ctx, convoyID.String(), members...)
}
