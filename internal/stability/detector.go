package stability

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"dropzone/internal/model"
	"dropzone/internal/util"

	"go.uber.org/zap"
)

var ErrContentDeleted = errors.New("content has been deleted")

// TimeoutError reports a folder that never produced two matching samples.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Time out in %s, still changing after %s", HumanDuration(e.Timeout), HumanDuration(e.Elapsed))
}

type SampleFunc func(ctx context.Context, folder string) (model.FolderSnapshot, error)

type SleepFunc func(ctx context.Context, d time.Duration) error

type Result struct {
	Snapshot model.FolderSnapshot
	Polls    int
	Elapsed  time.Duration
}

type Detector struct {
	sample   SampleFunc
	sleep    SleepFunc
	interval time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

type DetectorOption func(*Detector)

// WithSleep replaces the wait between polls.
func WithSleep(fn SleepFunc) DetectorOption {
	return func(d *Detector) {
		d.sleep = fn
	}
}

func WithLogger(log *zap.Logger) DetectorOption {
	return func(d *Detector) {
		d.log = log
	}
}

func NewDetector(sample SampleFunc, interval, timeout time.Duration, opts ...DetectorOption) *Detector {
	d := &Detector{
		sample:   sample,
		sleep:    util.Sleep,
		interval: interval,
		timeout:  timeout,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait polls folder until two consecutive samples match. It fails with
// ErrContentDeleted when a non-empty folder turns empty, and with *TimeoutError
// when the accumulated time between differing samples reaches the timeout.
func (d *Detector) Wait(ctx context.Context, folder string) (Result, error) {
	prev, err := d.sample(ctx, folder)
	if err != nil {
		return Result{}, err
	}

	var (
		elapsed time.Duration
		polls   int
	)

	for elapsed < d.timeout {
		d.log.Info("will check again in " + HumanDuration(d.interval))
		if err := d.sleep(ctx, d.interval); err != nil {
			return Result{}, err
		}

		cur, err := d.sample(ctx, folder)
		if err != nil {
			return Result{}, err
		}
		polls++

		if cur.IsEmpty() && !prev.IsEmpty() {
			return Result{}, fmt.Errorf("the content of %s: %w", folder, ErrContentDeleted)
		}

		if cur.Equal(prev) {
			d.log.Info("uploading is done",
				zap.Int("polls", polls))
			return Result{Snapshot: cur, Polls: polls, Elapsed: time.Duration(polls) * d.interval}, nil
		}

		elapsed += d.interval
		d.log.Info("not finished",
			zap.Int64("size_delta", cur.TotalSize-prev.TotalSize),
			zap.Int("count_delta", cur.FileCount-prev.FileCount))
		prev = cur
	}

	d.log.Info("time out " + HumanDuration(elapsed))
	return Result{}, &TimeoutError{Timeout: d.timeout, Elapsed: elapsed}
}

// HumanDuration renders whole minutes below an hour and tenths of hours above.
func HumanDuration(d time.Duration) string {
	if d < time.Minute {
		return d.String()
	}

	minutes := math.Ceil(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", int(minutes))
	}

	hours := math.Round(minutes/60*10) / 10
	return strconv.FormatFloat(hours, 'f', -1, 64) + " hours"
}
