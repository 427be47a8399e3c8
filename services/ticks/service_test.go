package ticks

import (
	"context"
	"testing"
	"time"

	"karst-backend/lib/testutil"
	"karst-backend/services/ticks/db"

	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/ticks",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(res.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	exists, err := service.Exists(ctx, "alice", 1)
	require.NoError(t, err)
	require.False(t, exists)

	tick := Tick{
		User:      "alice",
		ProblemID: 1,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Notes:     "Imported from lezec.cz diary. Style: RP",
	}
	require.NoError(t, service.Create(ctx, tick))

	exists, err = service.Exists(ctx, "alice", 1)
	require.NoError(t, err)
	require.True(t, exists)

	// the same pair maps to ErrAlreadyExists, not a generic failure
	err = service.Create(ctx, tick)
	require.ErrorIs(t, err, ErrAlreadyExists)

	// another user may tick the same problem
	tick.User = "bob"
	require.NoError(t, service.Create(ctx, tick))

	listed, err := service.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "alice", listed[0].User)
	require.Equal(t, int64(1), listed[0].ProblemID)
	require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), listed[0].Date)
}
