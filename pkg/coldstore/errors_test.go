package coldstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

func TestWrapErrClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"row miss", gocql.ErrNotFound, KindNotFound},
		{"context deadline", context.DeadlineExceeded, KindTimeout},
		{"driver timeout", gocql.ErrTimeoutNoResponse, KindTimeout},
		{"decode failure", &json.SyntaxError{}, KindSerialization},
		{"anything else", errors.New("connection reset"), KindQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("get_convoy", tt.err)
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, "get_convoy", ce.Op)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWrapErrNil(t *testing.T) {
	assert.NoError(t, wrapErr("noop", nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(wrapErr("get_drone", gocql.ErrNotFound)))
	assert.False(t, IsNotFound(wrapErr("get_drone", errors.New("boom"))))
	assert.False(t, IsNotFound(nil))
}

func TestPageLimit(t *testing.T) {
	s := &Store{pageSize: 100}
	assert.Equal(t, 100, s.pageLimit(0))
	assert.Equal(t, 100, s.pageLimit(-5))
	assert.Equal(t, 25, s.pageLimit(25))
	assert.Equal(t, 500, s.pageLimit(500))
}

func TestEngagementStatementArity(t *testing.T) {
	e := &domain.Engagement{}
	args := engagementArgs(e)

	placeholders := strings.Count(insertEngagementCQL, "?")
	assert.Equal(t, placeholders, len(args))

	mirror := strings.Count(insertEngagementByDroneCQL, "?")
	assert.Equal(t, mirror, len(args))
}

func TestNullableConverters(t *testing.T) {
	assert.Nil(t, timePtr(time.Time{}))
	now := time.Now()
	require.NotNil(t, timePtr(now))
	assert.Equal(t, now, *timePtr(now))

	assert.Nil(t, strPtr(""))
	assert.Equal(t, "direct hit", *strPtr("direct hit"))

	assert.Nil(t, intPtr(0))
	assert.Equal(t, 12, *intPtr(12))
}
