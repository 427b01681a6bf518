package stability

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"dropzone/internal/logger"
	"dropzone/internal/model"
	"dropzone/internal/util"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Sampler struct {
	fs       afero.Fs
	log      *zap.Logger
	attempts int
	delay    time.Duration
}

func NewSampler(fsys afero.Fs, log *zap.Logger, attempts int, delay time.Duration) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}

	return &Sampler{
		fs:       fsys,
		log:      log,
		attempts: attempts,
		delay:    delay,
	}
}

// Sample measures root, retrying failed walks before giving up.
func (s *Sampler) Sample(ctx context.Context, root string) (model.FolderSnapshot, error) {
	var snap model.FolderSnapshot

	err := util.Retry(ctx, s.attempts, s.delay, func(attempt int) error {
		s.log.Info("get info of "+root,
			zap.Int("attempt", attempt))

		var err error
		snap, err = Measure(s.fs, root)
		if err != nil {
			s.log.Warn("failed to get folder info",
				zap.String("path", root),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	})
	if err != nil {
		return model.FolderSnapshot{}, err
	}

	latest := "none"
	if snap.LatestModTime != nil {
		latest = snap.LatestModTime.Format(time.DateTime)
	}
	s.log.Info("folder info "+logger.HyperLink(root),
		zap.String("total_size", humanize.Bytes(uint64(snap.TotalSize))),
		zap.Int("total_number", snap.FileCount),
		zap.String("latest_time", latest))

	return snap, nil
}

// Measure walks root once and sums every regular file below it, following
// symbolic links.
func Measure(fsys afero.Fs, root string) (model.FolderSnapshot, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return model.FolderSnapshot{}, fmt.Errorf("%s does not exist: %w", root, err)
	}
	if !info.IsDir() {
		return model.FolderSnapshot{}, fmt.Errorf("%s is not a directory: %w", root, fs.ErrInvalid)
	}

	var snap model.FolderSnapshot
	err = util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		snap.TotalSize += info.Size()
		snap.FileCount++

		mod := info.ModTime()
		if snap.LatestModTime == nil || mod.After(*snap.LatestModTime) {
			snap.LatestModTime = &mod
		}
		return nil
	})
	if err != nil {
		return model.FolderSnapshot{}, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return snap, nil
}
