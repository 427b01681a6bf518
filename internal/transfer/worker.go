package transfer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"dropzone/internal/config"
	"dropzone/internal/logger"
	"dropzone/internal/model"
	"dropzone/internal/stability"
	"dropzone/internal/status"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Outcome is what the pool learns about a finished worker. The detailed
// status lives in the status store.
type Outcome struct {
	TrackingID string
	Folder     string
	Succeeded  bool
	Err        error
}

// Worker owns one uploaded folder for its whole life: it waits for the upload
// to settle, copies the folder into the dated target area and then moves the source
// folder into the dated archive.
type Worker struct {
	cfg   config.Config
	store status.Store
	fs    afero.Fs
	log   *logger.File
	now   func() time.Time
	sleep stability.SleepFunc
	owner string

	id      string
	folder  string
	name    string
	target  string
	archive string
}

type Option func(*Worker)

func WithFs(fsys afero.Fs) Option {
	return func(w *Worker) {
		w.fs = fsys
	}
}

func WithLogger(l *logger.File) Option {
	return func(w *Worker) {
		w.log = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// WithSleep replaces the wait between stability polls.
func WithSleep(fn stability.SleepFunc) Option {
	return func(w *Worker) {
		w.sleep = fn
	}
}

func WithOwner(owner string) Option {
	return func(w *Worker) {
		w.owner = owner
	}
}

func NewWorker(cfg config.Config, store status.Store, folder string, opts ...Option) (*Worker, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		id = uuid.New()
	}

	w := &Worker{
		cfg:    cfg,
		store:  store,
		fs:     afero.NewOsFs(),
		now:    time.Now,
		owner:  model.OwnerID(),
		id:     id.String(),
		folder: folder,
		name:   filepath.Base(folder),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.log == nil {
		l, err := logger.NewFile(cfg.LogDir, w.name, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for %s: %w", w.name, err)
		}
		w.log = l
	}

	day := w.now()
	w.target = DatedPath(cfg.TargetDir, day, w.name)
	w.archive = DatedPath(cfg.ArchiveDir, day, w.name)

	return w, nil
}

func (w *Worker) ID() string {
	return w.id
}

func (w *Worker) Folder() string {
	return w.folder
}

// Register records the transfer as Starting. It runs before the worker is
// queued so the coordinator sees the record on its next report.
func (w *Worker) Register() error {
	return w.store.Create(model.TrackingRecord{
		TrackingID:   w.id,
		Owner:        w.owner,
		SourceFolder: w.folder,
		TargetFolder: w.target,
		Status:       model.Starting(),
		StartedAt:    w.now(),
	})
}

// Run drives the folder to Copied or Failure. Errors and panics end up in the
// status store and the outcome; they never escape.
func (w *Worker) Run(ctx context.Context) (out Outcome) {
	out = Outcome{TrackingID: w.id, Folder: w.folder}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("panic: %v", r)
			out.Succeeded = false
			w.fail(out.Err)
		}
		_ = w.log.Close()
	}()

	if err := w.run(ctx); err != nil {
		w.fail(err)
		out.Err = err
		return out
	}

	out.Succeeded = true
	return out
}

// Abort records err as the failure of a transfer that never got to run.
func (w *Worker) Abort(err error) Outcome {
	w.fail(err)
	_ = w.log.Close()
	return Outcome{TrackingID: w.id, Folder: w.folder, Err: err}
}

func (w *Worker) run(ctx context.Context) error {
	w.log.Info("starting working on " + w.name)

	if err := w.update(model.Checking()); err != nil {
		return err
	}

	w.log.Info("checking if " + w.folder + " is done with uploading")

	sampler := stability.NewSampler(w.fs, w.log.Logger, w.cfg.SampleAttempts, w.cfg.SampleDelay)
	opts := []stability.DetectorOption{stability.WithLogger(w.log.Logger)}
	if w.sleep != nil {
		opts = append(opts, stability.WithSleep(w.sleep))
	}

	detector := stability.NewDetector(sampler.Sample, w.cfg.PollInterval, w.cfg.StabilityTimeout, opts...)
	if _, err := detector.Wait(ctx, w.folder); err != nil {
		return err
	}

	if err := w.update(model.Transferred()); err != nil {
		return err
	}

	target, err := ResolveCollision(w.fs, w.target, w.now())
	if err != nil {
		return err
	}
	w.target = target

	if err := w.update(model.Copying(), status.WithTargetFolder(target)); err != nil {
		return err
	}

	w.log.Info("starting copying " + w.folder + " to " + logger.HyperLink(target))
	if err := CopyTree(ctx, w.fs, w.folder, target); err != nil {
		return err
	}
	w.log.Info("done with copying " + w.name)

	archive, err := ResolveCollision(w.fs, w.archive, w.now())
	if err != nil {
		return err
	}
	w.archive = archive

	if err := w.update(model.Copied(), status.WithArchiveFolder(archive)); err != nil {
		return err
	}

	w.log.Info("starting archiving " + w.folder + " to " + logger.HyperLink(archive))
	if err := MoveTree(ctx, w.fs, w.folder, archive); err != nil {
		return err
	}
	w.log.Info("done with archiving " + w.name)

	return nil
}

func (w *Worker) update(next model.Status, opts ...status.UpdateOption) error {
	if err := w.store.Update(w.id, next, opts...); err != nil {
		return fmt.Errorf("failed to record %s: %w", next, err)
	}
	return nil
}

func (w *Worker) fail(err error) {
	w.log.Error("transfer failed",
		zap.String("folder", w.folder),
		zap.Error(err))

	if uerr := w.store.Update(w.id, model.Failure(err.Error())); uerr != nil {
		w.log.Warn("failed to record failure",
			zap.String("tracking_id", w.id),
			zap.Error(uerr))
	}
}
