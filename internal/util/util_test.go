package util

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	fsys := afero.NewMemMapFs()

	require.NoError(t, AtomicWrite(fsys, "/out/a/b.txt", strings.NewReader("hello"), 0644))

	data, err := afero.ReadFile(fsys, "/out/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ok, err := Exists(fsys, "/out/a/b.txt"+tmpSuffix)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestAtomicWriteCleansUpOnError(t *testing.T) {
	fsys := afero.NewMemMapFs()

	err := AtomicWrite(fsys, "/out/x", failingReader{}, 0644)
	require.Error(t, err)

	for _, p := range []string{"/out/x", "/out/x" + tmpSuffix} {
		ok, err := Exists(fsys, p)
		require.NoError(t, err)
		assert.False(t, ok, p)
	}
}

func TestRemoveIfExists(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/d/f", []byte("x"), 0644))

	assert.NoError(t, RemoveIfExists(fsys, "/d"))
	assert.NoError(t, RemoveIfExists(fsys, "/d"))

	ok, _ := Exists(fsys, "/d/f")
	assert.False(t, ok)
}

func TestRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, 0, func(attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryReturnsLastError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, 0, func(attempt int) error {
		calls++
		return errors.New("still down")
	})

	assert.EqualError(t, err, "still down")
	assert.Equal(t, 5, calls)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Retry(ctx, 5, time.Hour, func(attempt int) error {
		calls++
		cancel()
		return errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
