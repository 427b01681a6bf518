package status

import (
	"fmt"
	"sync"
	"testing"

	"dropzone/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(id string) model.TrackingRecord {
	return model.TrackingRecord{
		TrackingID:   id,
		SourceFolder: "/in/" + id,
		TargetFolder: "/target/" + id,
		Status:       model.Starting(),
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Create(newRecord("a")))

	require.NoError(t, s.Update("a", model.Checking()))
	require.NoError(t, s.Update("a", model.Transferred()))
	require.NoError(t, s.Update("a", model.Copying(), WithTargetFolder("/target/a_1")))
	require.NoError(t, s.Update("a", model.Copied(), WithArchiveFolder("/archive/a")))

	rec, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.Copied(), rec.Status)
	assert.Equal(t, "/target/a_1", rec.TargetFolder)
	assert.Equal(t, "/archive/a", rec.ArchiveFolder)
	assert.False(t, rec.StartedAt.IsZero())
}

func TestMemoryStoreRejectsBackwardsAndSkips(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Create(newRecord("a")))

	assert.ErrorIs(t, s.Update("a", model.Copying()), ErrInvalidTransition)
	require.NoError(t, s.Update("a", model.Checking()))
	assert.ErrorIs(t, s.Update("a", model.Starting()), ErrInvalidTransition)

	require.NoError(t, s.Update("a", model.Failure("Time out in 2 hours")))
	assert.ErrorIs(t, s.Update("a", model.Transferred()), ErrInvalidTransition)
	assert.ErrorIs(t, s.Update("a", model.Failure("again")), ErrInvalidTransition)

	rec, _ := s.Get("a")
	assert.Equal(t, "Failure: Time out in 2 hours", rec.Status.String())
}

func TestMemoryStoreUnknownAndDuplicate(t *testing.T) {
	s := NewMemoryStore()
	assert.ErrorIs(t, s.Update("missing", model.Checking()), ErrUnknownRecord)

	require.NoError(t, s.Create(newRecord("a")))
	assert.ErrorIs(t, s.Create(newRecord("a")), ErrDuplicateRecord)
}

func TestMemoryStoreConcurrentWriters(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup

	for i := range 50 {
		id := fmt.Sprintf("w%02d", i)
		require.NoError(t, s.Create(newRecord(id)))

		wg.Go(func() {
			_ = s.Update(id, model.Checking())
			_ = s.Update(id, model.Transferred())
			_ = s.Snapshot()
			_ = s.Update(id, model.Copying())
			_ = s.Update(id, model.Copied())
		})
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap, 50)
	for _, rec := range snap {
		assert.Equal(t, model.Copied(), rec.Status)
	}
}
