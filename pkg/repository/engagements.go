package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
)

type engagementCold interface {
	InsertEngagement(ctx context.Context, e *domain.Engagement) error
	ListEngagementsByConvoy(ctx context.Context, convoyID uuid.UUID, limit int) ([]domain.Engagement, error)
	ListEngagementsByDrone(ctx context.Context, droneID uuid.UUID, limit int) ([]domain.Engagement, error)
	FindEngagementByID(ctx context.Context, convoyID, engagementID uuid.UUID) (*domain.Engagement, error)
	UpdateBDA(ctx context.Context, e *domain.Engagement, bdaStatus string, bdaNotes *string, assessment domain.DamageAssessment) error
}

// BDA status values carried on the engagement record.
const (
	BDAStatusPending  = "PENDING"
	BDAStatusComplete = "COMPLETE"
)

// EngagementRepository manages the immutable engagement log and its
// per-drone mirror. The convoy-keyed table is primary; a failed mirror
// write is logged and left to reconciliation rather than failing the
// engagement. There is no hot projection for the log itself, only the
// counter hash owned by the ranking engine.
type EngagementRepository struct {
	cold engagementCold
	log  *zap.Logger
}

func NewEngagementRepository(cold *coldstore.Store, log *zap.Logger) *EngagementRepository {
	return &EngagementRepository{cold: cold, log: log.Named("engagements")}
}

// Create appends one engagement to both mirrors. A primary failure is
// the caller's problem; a mirror failure is not.
func (r *EngagementRepository) Create(ctx context.Context, e *domain.Engagement) error {
	if err := r.cold.InsertEngagement(ctx, e); err != nil {
		if errors.Is(err, coldstore.ErrMirrorWrite) {
			r.log.Error("engagement mirror write failed, primary committed",
				zap.String("engagement_id", e.EngagementID.String()),
				zap.String("drone_id", e.DroneID.String()),
				zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

// ListByConvoy returns the convoy's engagement log, newest first.
func (r *EngagementRepository) ListByConvoy(ctx context.Context, convoyID uuid.UUID, limit int) ([]domain.Engagement, error) {
	return r.cold.ListEngagementsByConvoy(ctx, convoyID, limit)
}

// ListByDrone returns one asset's engagement log, newest first.
func (r *EngagementRepository) ListByDrone(ctx context.Context, droneID uuid.UUID, limit int) ([]domain.Engagement, error) {
	return r.cold.ListEngagementsByDrone(ctx, droneID, limit)
}

// GetByID locates an engagement inside its convoy partition.
func (r *EngagementRepository) GetByID(ctx context.Context, convoyID, engagementID uuid.UUID) (*domain.Engagement, error) {
	return r.cold.FindEngagementByID(ctx, convoyID, engagementID)
}

// RecordBDA attaches a battle damage assessment to an engagement. The
// record's result and BDA fields are the only mutable parts of the log.
func (r *EngagementRepository) RecordBDA(ctx context.Context, convoyID, engagementID uuid.UUID, assessment domain.DamageAssessment, notes *string) (*domain.Engagement, error) {
	e, err := r.cold.FindEngagementByID(ctx, convoyID, engagementID)
	if err != nil {
		return nil, err
	}

	bdaStatus := BDAStatusComplete
	if assessment == domain.BDAPendingBDA {
		bdaStatus = BDAStatusPending
	}

	if err := r.cold.UpdateBDA(ctx, e, bdaStatus, notes, assessment); err != nil {
		if !errors.Is(err, coldstore.ErrMirrorWrite) {
			return nil, err
		}
		r.log.Error("BDA mirror write failed, primary committed",
			zap.String("engagement_id", engagementID.String()),
			zap.Error(err))
	}

	e.BDAStatus = bdaStatus
	e.BDANotes = notes
	e.Result.DamageAssessment = assessment
	return e, nil
}
