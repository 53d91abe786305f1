package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/coldstore"
	"github.com/picogrid/convoy-tracker/pkg/domain"
)

type fakeWaypointCold struct {
	routes map[uuid.UUID][]domain.Waypoint
}

func newFakeWaypointCold() *fakeWaypointCold {
	return &fakeWaypointCold{routes: make(map[uuid.UUID][]domain.Waypoint)}
}

func (f *fakeWaypointCold) InsertWaypoints(_ context.Context, waypoints []domain.Waypoint) error {
	if len(waypoints) == 0 {
		return nil
	}
	f.routes[waypoints[0].DroneID] = append([]domain.Waypoint(nil), waypoints...)
	return nil
}

func (f *fakeWaypointCold) ListWaypoints(_ context.Context, droneID uuid.UUID) ([]domain.Waypoint, error) {
	return append([]domain.Waypoint(nil), f.routes[droneID]...), nil
}

func (f *fakeWaypointCold) GetWaypoint(_ context.Context, droneID uuid.UUID, sequenceNumber int) (*domain.Waypoint, error) {
	route := f.routes[droneID]
	for i := range route {
		if route[i].SequenceNumber == sequenceNumber {
			wp := route[i]
			return &wp, nil
		}
	}
	return nil, &coldstore.Error{Kind: coldstore.KindNotFound, Op: "get_waypoint", Err: errors.New("no row")}
}

func (f *fakeWaypointCold) UpdateWaypointStatus(_ context.Context, droneID uuid.UUID, sequenceNumber int, status domain.WaypointStatus, actualArrival, actualDeparture *time.Time) error {
	route := f.routes[droneID]
	for i := range route {
		if route[i].SequenceNumber != sequenceNumber {
			continue
		}
		route[i].Status = status
		if actualArrival != nil {
			route[i].ActualArrival = actualArrival
		}
		if actualDeparture != nil {
			route[i].ActualDeparture = actualDeparture
		}
		return nil
	}
	return &coldstore.Error{Kind: coldstore.KindNotFound, Op: "update_waypoint_status", Err: errors.New("no row")}
}

func (f *fakeWaypointCold) activeSequences(droneID uuid.UUID) []int {
	var active []int
	for _, wp := range f.routes[droneID] {
		if wp.Status == domain.WaypointActive {
			active = append(active, wp.SequenceNumber)
		}
	}
	return active
}

func (f *fakeWaypointCold) bySequence(droneID uuid.UUID, sequenceNumber int) domain.Waypoint {
	for _, wp := range f.routes[droneID] {
		if wp.SequenceNumber == sequenceNumber {
			return wp
		}
	}
	return domain.Waypoint{}
}

func seedRoute(f *fakeWaypointCold, droneID uuid.UUID, n int) {
	route := make([]domain.Waypoint, 0, n)
	for i := 1; i <= n; i++ {
		route = append(route, domain.Waypoint{
			DroneID:        droneID,
			SequenceNumber: i,
			WaypointID:     uuid.New(),
			WaypointName:   fmt.Sprintf("WP-%d", i),
			WaypointType:   domain.WaypointNav,
			Status:         domain.WaypointPending,
		})
	}
	f.routes[droneID] = route
}

func newWaypointRepoForTest(f *fakeWaypointCold) *WaypointRepository {
	return &WaypointRepository{cold: f, log: zap.NewNop()}
}

func TestUpdateStatusKeepsOneWaypointActive(t *testing.T) {
	fake := newFakeWaypointCold()
	droneID := uuid.New()
	seedRoute(fake, droneID, 5)
	repo := newWaypointRepoForTest(fake)
	ctx := context.Background()

	arrived := time.Now().UTC()
	_, err := repo.UpdateStatus(ctx, droneID, 1, domain.WaypointActive, &arrived, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, fake.activeSequences(droneID))

	// Activating the next point demotes the previous one, not just the
	// target row.
	arrived = time.Now().UTC()
	wp, err := repo.UpdateStatus(ctx, droneID, 2, domain.WaypointActive, &arrived, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.WaypointActive, wp.Status)
	assert.Equal(t, []int{2}, fake.activeSequences(droneID))

	previous := fake.bySequence(droneID, 1)
	assert.Equal(t, domain.WaypointComplete, previous.Status)
	assert.NotNil(t, previous.ActualDeparture)
}

func TestUpdateStatusNonActiveLeavesSiblings(t *testing.T) {
	fake := newFakeWaypointCold()
	droneID := uuid.New()
	seedRoute(fake, droneID, 3)
	repo := newWaypointRepoForTest(fake)
	ctx := context.Background()

	arrived := time.Now().UTC()
	_, err := repo.UpdateStatus(ctx, droneID, 1, domain.WaypointActive, &arrived, nil)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, droneID, 3, domain.WaypointSkipped, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, fake.activeSequences(droneID))
	assert.Equal(t, domain.WaypointSkipped, fake.bySequence(droneID, 3).Status)
}

func TestAdvanceProgressesRoute(t *testing.T) {
	fake := newFakeWaypointCold()
	droneID := uuid.New()
	seedRoute(fake, droneID, 4)
	repo := newWaypointRepoForTest(fake)
	ctx := context.Background()

	require.NoError(t, repo.Advance(ctx, droneID, 1))
	assert.Equal(t, []int{1}, fake.activeSequences(droneID))
	assert.NotNil(t, fake.bySequence(droneID, 1).ActualArrival)

	// Re-reporting the same waypoint is a no-op.
	require.NoError(t, repo.Advance(ctx, droneID, 1))
	assert.Equal(t, []int{1}, fake.activeSequences(droneID))

	require.NoError(t, repo.Advance(ctx, droneID, 3))
	assert.Equal(t, []int{3}, fake.activeSequences(droneID))
	assert.Equal(t, domain.WaypointComplete, fake.bySequence(droneID, 1).Status)
}

func TestAdvanceIgnoresMissingRoutes(t *testing.T) {
	fake := newFakeWaypointCold()
	repo := newWaypointRepoForTest(fake)
	ctx := context.Background()

	// Assets without an uploaded route report telemetry too.
	require.NoError(t, repo.Advance(ctx, uuid.New(), 1))

	// Sequence numbers outside the mission route are dropped.
	droneID := uuid.New()
	seedRoute(fake, droneID, 3)
	require.NoError(t, repo.Advance(ctx, droneID, 0))
	require.NoError(t, repo.Advance(ctx, droneID, domain.MissionWaypointCount+1))
	assert.Empty(t, fake.activeSequences(droneID))
}

func TestCreateRouteValidation(t *testing.T) {
	fake := newFakeWaypointCold()
	droneID := uuid.New()
	repo := newWaypointRepoForTest(fake)
	ctx := context.Background()

	err := repo.CreateRoute(ctx, droneID, []domain.Waypoint{{DroneID: droneID, SequenceNumber: 1}})
	assert.ErrorContains(t, err, "exactly 25 waypoints")

	route := make([]domain.Waypoint, 0, domain.MissionWaypointCount)
	for i := 1; i <= domain.MissionWaypointCount; i++ {
		route = append(route, domain.Waypoint{DroneID: droneID, SequenceNumber: i})
	}
	route[10].SequenceNumber = 99
	err = repo.CreateRoute(ctx, droneID, route)
	assert.ErrorContains(t, err, "contiguous")
}
