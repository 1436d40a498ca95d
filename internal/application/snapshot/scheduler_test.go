package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/regionmap/internal/application/snapshot"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/testutil"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	store := snapshot.NewStore(testutil.NewStubSource("stub", nil), logging.NewNopLogger())

	for _, spec := range []string{"", "  ", "every minute", "61 * * * *"} {
		_, err := snapshot.NewScheduler(store, spec, logging.NewNopLogger())
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestScheduler_RunsRefresh(t *testing.T) {
	src := testutil.NewStubSource("stub", sampleReps())
	store := snapshot.NewStore(src, logging.NewNopLogger())

	sched, err := snapshot.NewScheduler(store, "@every 1s", logging.NewNopLogger())
	require.NoError(t, err)
	sched.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		sched.Stop(ctx)
	}()

	assert.Eventually(t, func() bool { return store.Current().Version >= 1 }, 5*time.Second, 50*time.Millisecond)
}

//Personal.AI order the ending
