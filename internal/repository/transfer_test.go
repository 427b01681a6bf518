package repository

import (
	"path/filepath"
	"testing"
	"time"

	"dropzone/internal/db"
	"dropzone/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) {
	t.Helper()

	require.NoError(t, db.Init(filepath.Join(t.TempDir(), "state", "dropzone.db")))
	t.Cleanup(func() { _ = db.Close() })
}

func record(id string, st model.Status) model.TrackingRecord {
	return model.TrackingRecord{
		TrackingID:    id,
		SourceFolder:  "/in/" + id,
		TargetFolder:  "/target/2026-05-01/" + id,
		ArchiveFolder: "/archive/2026-05-01/" + id,
		Status:        st,
		StartedAt:     time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestTransferRepository(t *testing.T) {
	openDB(t)
	repo := NewTransferRepository()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(record("a", model.Copied()), base))
	require.NoError(t, repo.Save(record("b", model.Failure("content has been deleted")), base.Add(time.Minute)))
	require.NoError(t, repo.Save(record("c", model.Copied()), base.Add(2*time.Minute)))

	recent, err := repo.GetRecent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].TrackingID)
	assert.Equal(t, "b", recent[1].TrackingID)

	failed, err := repo.GetFailed()
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, model.ResultFailed, failed[0].Result)
	assert.Equal(t, "Failure: content has been deleted", failed[0].Status)

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Copied: 2, Failed: 1}, stats)
}

func TestTransferRepositorySaveTwiceKeepsOneRow(t *testing.T) {
	openDB(t)
	repo := NewTransferRepository()
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(record("a", model.Copied()), at))
	require.NoError(t, repo.Save(record("a", model.Failure("archive failed")), at.Add(time.Minute)))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)

	failed, err := repo.GetFailed()
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].TrackingID)
}
