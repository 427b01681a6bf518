package transfer

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatedPath(t *testing.T) {
	day := time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "/target/2026-05-01/F", DatedPath("/target", day, "F"))
}

func TestResolveCollision(t *testing.T) {
	fsys := afero.NewMemMapFs()
	now := time.Date(2026, 5, 1, 9, 30, 15, 0, time.UTC)

	got, err := ResolveCollision(fsys, "/t/F", now)
	require.NoError(t, err)
	assert.Equal(t, "/t/F", got)

	require.NoError(t, fsys.MkdirAll("/t/F", 0755))
	got, err = ResolveCollision(fsys, "/t/F", now)
	require.NoError(t, err)
	assert.Equal(t, "/t/F_20260501093015", got)

	require.NoError(t, fsys.MkdirAll("/t/F_20260501093015", 0755))
	got, err = ResolveCollision(fsys, "/t/F", now)
	require.NoError(t, err)
	assert.Equal(t, "/t/F_20260501093015_1", got)
}
