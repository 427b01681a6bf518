package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dropzone/internal/config"
	"dropzone/internal/logger"
	"dropzone/internal/model"
	"dropzone/internal/pipeline"
	"dropzone/internal/stability"
	"dropzone/internal/status"
	"dropzone/internal/transfer"
	"dropzone/internal/util"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const monitorName = "FolderMonitor"

// Job is a Task that records itself in the status store before it is queued.
type Job interface {
	Task
	Register() error
}

type JobFactory func(folder string) (Job, error)

// HistorySaver persists the final record of a finished transfer.
type HistorySaver interface {
	Save(rec model.TrackingRecord, finishedAt time.Time) error
}

// Coordinator scans the watch root, dispatches every new folder exactly once
// and reports progress until the end of the working day.
type Coordinator struct {
	cfg     config.Config
	store   status.Store
	pool    *Pool
	log     *logger.File
	fs      afero.Fs
	now     func() time.Time
	sleep   stability.SleepFunc
	wake    <-chan struct{}
	history HistorySaver
	newJob  JobFactory

	mu         sync.Mutex
	dispatched map[string]*Handle
	handles    []*Handle
	persisted  map[string]bool

	stopOnce  sync.Once
	stopCh    chan struct{}
	interrupt chan struct{}
}

type CoordinatorOption func(*Coordinator)

func WithFs(fsys afero.Fs) CoordinatorOption {
	return func(c *Coordinator) {
		c.fs = fsys
	}
}

func WithLogger(l *logger.File) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = l
	}
}

func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithSleep replaces the settle delay and main break waits.
func WithSleep(fn stability.SleepFunc) CoordinatorOption {
	return func(c *Coordinator) {
		c.sleep = fn
	}
}

// WithWake cuts the main break short whenever ch fires.
func WithWake(ch <-chan struct{}) CoordinatorOption {
	return func(c *Coordinator) {
		c.wake = ch
	}
}

func WithHistory(h HistorySaver) CoordinatorOption {
	return func(c *Coordinator) {
		c.history = h
	}
}

func WithJobFactory(f JobFactory) CoordinatorOption {
	return func(c *Coordinator) {
		c.newJob = f
	}
}

func NewCoordinator(cfg config.Config, store status.Store, pool *Pool, opts ...CoordinatorOption) (*Coordinator, error) {
	c := &Coordinator{
		cfg:        cfg,
		store:      store,
		pool:       pool,
		fs:         afero.NewOsFs(),
		now:        time.Now,
		sleep:      util.Sleep,
		dispatched: make(map[string]*Handle),
		persisted:  make(map[string]bool),
		stopCh:     make(chan struct{}),
		interrupt:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		l, err := logger.NewFile(cfg.LogDir, monitorName, os.Stdout)
		if err != nil {
			return nil, fmt.Errorf("failed to create monitor logger: %w", err)
		}
		c.log = l
	}

	if c.newJob == nil {
		c.newJob = func(folder string) (Job, error) {
			return transfer.NewWorker(cfg, store, folder, transfer.WithFs(c.fs))
		}
	}

	return c, nil
}

// Run drives the scan/report cycle until the day is over or a stop was
// requested, then waits for every dispatched transfer to finish.
func (c *Coordinator) Run(ctx context.Context) error {
	ending := c.cfg.EndingTime(c.now())
	c.log.Info("monitoring " + logger.HyperLink(c.cfg.WatchDir) + " until " + ending.Format("15:04"))

	for {
		if !c.StopRequested() {
			c.scan()
		}

		if err := c.sleep(ctx, c.cfg.SettleDelay); err != nil {
			break
		}
		c.report()

		c.log.Info("take " + stability.HumanDuration(c.cfg.MainBreak) + " break")
		if err := c.pause(ctx); err != nil {
			break
		}

		active, completed := c.classify()
		c.persist()
		c.log.Info(fmt.Sprintf("%d active jobs, %d completed jobs", active, completed))

		if active > 0 {
			continue
		}
		if c.now().After(ending) {
			c.log.Info("no active jobs now, done with today")
			break
		}
		if c.StopRequested() {
			c.log.Info("stop requested, no active jobs left")
			break
		}
	}

	if ctx.Err() != nil {
		c.log.Warn("interrupted, waiting for workers to give up")
	}

	c.pool.Close()
	c.pool.Wait()
	c.persist()
	c.report()

	c.log.Info("all jobs finished")
	_ = c.log.Close()
	return nil
}

// RequestStop stops the coordinator from dispatching new folders. Running
// transfers are allowed to finish.
func (c *Coordinator) RequestStop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.interrupt <- struct{}{}
	})
}

func (c *Coordinator) StopRequested() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

// Handles returns a snapshot of every dispatched job in dispatch order.
func (c *Coordinator) Handles() []HandleSnapshot {
	c.mu.Lock()
	handles := make([]*Handle, len(c.handles))
	copy(handles, c.handles)
	c.mu.Unlock()

	snaps := make([]HandleSnapshot, 0, len(handles))
	for _, h := range handles {
		snaps = append(snaps, h.Snapshot())
	}
	return snaps
}

func (c *Coordinator) scan() {
	folders, err := c.listFolders()
	if err != nil {
		c.log.Error("failed to list watch dir",
			zap.String("dir", c.cfg.WatchDir),
			zap.Error(err))
		return
	}

	var fresh []string
	c.mu.Lock()
	for _, folder := range folders {
		if _, seen := c.dispatched[folder]; !seen {
			fresh = append(fresh, folder)
		}
	}
	c.mu.Unlock()

	if len(fresh) == 0 {
		c.log.Info("no new folders")
		return
	}

	c.log.Info(fmt.Sprintf("%d new folders found", len(fresh)))
	for _, folder := range fresh {
		c.dispatch(folder)
	}
}

func (c *Coordinator) listFolders() ([]string, error) {
	infos, err := afero.ReadDir(c.fs, c.cfg.WatchDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}

	names = pipeline.Folders(names, c.cfg.IgnoreList)
	folders := make([]string, len(names))
	for i, name := range names {
		folders[i] = filepath.Join(c.cfg.WatchDir, name)
	}
	return folders, nil
}

// dispatch marks folder as dispatched before anything else so a failure
// below never leads to a second attempt.
func (c *Coordinator) dispatch(folder string) {
	c.mu.Lock()
	c.dispatched[folder] = nil
	c.mu.Unlock()

	job, err := c.newJob(folder)
	if err != nil {
		c.log.Error("failed to create job",
			zap.String("folder", folder),
			zap.Error(err))
		return
	}

	if err := job.Register(); err != nil {
		c.log.Error("failed to register job",
			zap.String("folder", folder),
			zap.Error(err))
		return
	}

	h, err := c.pool.Submit(job)
	if err != nil {
		job.Abort(err)
		c.log.Error("failed to submit job",
			zap.String("folder", folder),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	c.dispatched[folder] = h
	c.handles = append(c.handles, h)
	c.mu.Unlock()

	c.log.Debug("dispatched",
		zap.String("folder", folder),
		zap.String("tracking_id", h.TrackingID))
}

// report logs the bucketed status of every record. It never takes the
// coordinator down.
func (c *Coordinator) report() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("failed to report transferring status",
				zap.Any("panic", r))
		}
	}()

	lines := status.Render(status.Classify(c.store.Snapshot()))

	logger.EmitBlankLines(c.log, 1)
	c.log.Info("reporting transferring status")
	for _, line := range lines {
		c.log.Info(line)
	}
}

func (c *Coordinator) pause(ctx context.Context) error {
	pctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-c.wake:
			c.log.Debug("new arrival, cutting the break short")
			cancel()
		case <-c.interrupt:
			cancel()
		case <-pctx.Done():
		}
	}()

	_ = c.sleep(pctx, c.cfg.MainBreak)
	return ctx.Err()
}

func (c *Coordinator) classify() (active, completed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.handles {
		if h.Done() {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

func (c *Coordinator) persist() {
	if c.history == nil {
		return
	}

	c.mu.Lock()
	var fresh []*Handle
	for _, h := range c.handles {
		if h.Done() && !c.persisted[h.TrackingID] {
			c.persisted[h.TrackingID] = true
			fresh = append(fresh, h)
		}
	}
	c.mu.Unlock()

	for _, h := range fresh {
		rec, ok := c.store.Get(h.TrackingID)
		if !ok {
			continue
		}

		finishedAt := c.now()
		if snap := h.Snapshot(); snap.FinishedAt != nil {
			finishedAt = *snap.FinishedAt
		}

		if err := c.history.Save(rec, finishedAt); err != nil {
			c.log.Warn("failed to save transfer history",
				zap.String("tracking_id", h.TrackingID),
				zap.Error(err))
		}
	}
}
