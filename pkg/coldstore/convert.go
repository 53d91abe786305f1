package coldstore

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// The driver and the domain both model UUIDs as [16]byte, so these
// conversions are free.

func cqlUUID(id uuid.UUID) gocql.UUID {
	return gocql.UUID(id)
}

func cqlUUIDs(ids []uuid.UUID) []gocql.UUID {
	out := make([]gocql.UUID, len(ids))
	for i, id := range ids {
		out[i] = gocql.UUID(id)
	}
	return out
}

func domainUUIDs(ids []gocql.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		out[i] = uuid.UUID(id)
	}
	return out
}

// timePtr converts a scanned timestamp to its nullable form. The driver
// scans NULL as the zero time.
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// strPtr converts a scanned text column to its nullable form, treating
// empty as absent.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// intPtr converts a scanned int column to its nullable form, treating
// zero as absent.
func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
