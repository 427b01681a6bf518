package stability

import (
	"context"
	"errors"
	"testing"
	"time"

	"dropzone/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type script struct {
	snaps []model.FolderSnapshot
	calls int
}

func (s *script) sample(_ context.Context, _ string) (model.FolderSnapshot, error) {
	snap := s.snaps[min(s.calls, len(s.snaps)-1)]
	s.calls++
	return snap, nil
}

type fakeSleep struct {
	total time.Duration
}

func (f *fakeSleep) sleep(_ context.Context, d time.Duration) error {
	f.total += d
	return nil
}

func snap(size int64, count int, mod *time.Time) model.FolderSnapshot {
	return model.FolderSnapshot{TotalSize: size, FileCount: count, LatestModTime: mod}
}

var t0 = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestDetector(s *script, sl *fakeSleep, timeout time.Duration) *Detector {
	return NewDetector(s.sample, time.Minute, timeout, WithSleep(sl.sleep))
}

func TestDetectorStableAfterOnePoll(t *testing.T) {
	s := &script{snaps: []model.FolderSnapshot{snap(30, 2, &t0), snap(30, 2, &t0)}}
	sl := &fakeSleep{}

	res, err := newTestDetector(s, sl, time.Hour).Wait(context.Background(), "/in/F")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Polls)
	assert.Equal(t, time.Minute, sl.total)
	assert.Equal(t, int64(30), res.Snapshot.TotalSize)
}

func TestDetectorKeepsPollingWhileChanging(t *testing.T) {
	t1 := t0.Add(time.Second)
	cases := map[string]model.FolderSnapshot{
		"size":  snap(50, 2, &t0),
		"count": snap(30, 3, &t0),
		"time":  snap(30, 2, &t1),
	}

	for name, changed := range cases {
		t.Run(name, func(t *testing.T) {
			s := &script{snaps: []model.FolderSnapshot{snap(30, 2, &t0), changed, changed}}
			sl := &fakeSleep{}

			res, err := newTestDetector(s, sl, time.Hour).Wait(context.Background(), "/in/F")
			require.NoError(t, err)
			assert.Equal(t, 2, res.Polls)
			assert.Equal(t, 3, s.calls)
		})
	}
}

func TestDetectorContentDeleted(t *testing.T) {
	s := &script{snaps: []model.FolderSnapshot{snap(30, 2, &t0), {}}}

	_, err := newTestDetector(s, &fakeSleep{}, time.Hour).Wait(context.Background(), "/in/F")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentDeleted)
}

func TestDetectorTimeout(t *testing.T) {
	s := &script{}
	for i := range 10 {
		s.snaps = append(s.snaps, snap(int64(i+1), 1, &t0))
	}

	_, err := newTestDetector(s, &fakeSleep{}, 3*time.Minute).Wait(context.Background(), "/in/F")
	require.Error(t, err)

	te, ok := errors.AsType[*TimeoutError](err)
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, te.Elapsed)
	assert.Contains(t, err.Error(), "Time out")
	assert.Equal(t, 4, s.calls)
}

// An empty folder that stays empty is reported stable, which means an upload
// that never started is handed off as complete.
func TestDetectorEmptyFolderCountsAsStable(t *testing.T) {
	s := &script{snaps: []model.FolderSnapshot{{}, {}}}

	res, err := newTestDetector(s, &fakeSleep{}, time.Hour).Wait(context.Background(), "/in/F")
	require.NoError(t, err)
	assert.True(t, res.Snapshot.IsEmpty())
}

func TestDetectorPropagatesSampleError(t *testing.T) {
	boom := errors.New("unreachable")
	d := NewDetector(func(context.Context, string) (model.FolderSnapshot, error) {
		return model.FolderSnapshot{}, boom
	}, time.Minute, time.Hour)

	_, err := d.Wait(context.Background(), "/in/F")
	assert.ErrorIs(t, err, boom)
}

func TestDetectorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &script{snaps: []model.FolderSnapshot{snap(1, 1, &t0)}}
	d := NewDetector(s.sample, time.Hour, 2*time.Hour)

	_, err := d.Wait(ctx, "/in/F")
	assert.ErrorIs(t, err, context.Canceled)
}
