package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/latoulicious/anglerslog/pkg/logging"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const (
	filePrefix     = "anglerslog-"
	fileSuffix     = ".json"
	fileTimeLayout = "20060102-150405.000"
)

// SchedulerConfig says where backups go, how often and how many to keep
type SchedulerConfig struct {
	Directory string
	// Schedule is a standard five field cron expression or a descriptor
	// such as "@daily" or "@every 6h"
	Schedule string
	// Retain is the number of newest backups kept; 0 keeps all
	Retain int
}

// Validate checks the schedule parses and the directory is set
func (c SchedulerConfig) Validate() error {
	if c.Directory == "" {
		return errors.New("backup directory is required")
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return errors.Wrapf(err, "invalid backup schedule %q", c.Schedule)
	}
	if c.Retain < 0 {
		return errors.Errorf("backup retain must not be negative, got %d", c.Retain)
	}
	return nil
}

// Scheduler writes timestamped exports on a cron schedule and prunes old ones
type Scheduler struct {
	exporter *Exporter
	cfg      SchedulerConfig
	logger   logging.Logger
	cron     *cron.Cron
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	started  bool
	lastRun  time.Time
	lastFile string
	lastErr  error
}

// NewScheduler validates cfg and prepares a stopped scheduler
func NewScheduler(exporter *Exporter, cfg SchedulerConfig, logger logging.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(cfg.Schedule, s.run); err != nil {
		return nil, errors.Wrapf(err, "schedule backups %q", cfg.Schedule)
	}
	return s, nil
}

// Start begins running backups in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()

	s.logger.Info("Backup scheduler started", map[string]interface{}{
		"schedule":  s.cfg.Schedule,
		"directory": s.cfg.Directory,
		"retain":    s.cfg.Retain,
		"next_run":  s.Next(),
	})
}

// Stop halts the schedule and cancels a running backup, then waits for it
// to return or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Backup scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for running backup")
	}
}

// Next is when the next scheduled backup runs; zero when stopped
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Status reports the last backup attempt
func (s *Scheduler) Status() (last time.Time, file string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastFile, s.lastErr
}

func (s *Scheduler) run() {
	if _, err := s.RunOnce(s.ctx); err != nil {
		s.logger.Error("Scheduled backup failed", err, map[string]interface{}{
			"directory": s.cfg.Directory,
		})
	}
}

// RunOnce writes one backup now and prunes old ones. It returns the path
// written.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	started := s.now()
	path := filepath.Join(s.cfg.Directory, FileName(started))

	err := s.exporter.ExportFile(ctx, path)
	if err == nil {
		var removed []string
		removed, err = Prune(s.cfg.Directory, s.cfg.Retain)
		if len(removed) > 0 {
			s.logger.Info("Pruned old backups", map[string]interface{}{
				"removed": len(removed),
				"retain":  s.cfg.Retain,
			})
		}
	}

	s.mu.Lock()
	s.lastRun = started
	s.lastErr = err
	if err == nil {
		s.lastFile = path
	}
	s.mu.Unlock()

	if err != nil {
		return "", err
	}

	s.logger.Info("Backup written", map[string]interface{}{
		"file":     path,
		"duration": s.now().Sub(started).String(),
	})
	return path, nil
}

// FileName is the backup file name for a backup taken at t. Names sort in
// time order.
func FileName(t time.Time) string {
	return filePrefix + t.UTC().Format(fileTimeLayout) + fileSuffix
}

// ListBackups returns the backup files in dir, oldest first
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read backup directory %s", dir)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, filepath.Join(dir, name))
	}
	sort.Strings(names)
	return names, nil
}

// Prune deletes all but the newest retain backups in dir and returns the
// removed paths. retain 0 keeps everything.
func Prune(dir string, retain int) ([]string, error) {
	if retain <= 0 {
		return nil, nil
	}

	backups, err := ListBackups(dir)
	if err != nil || len(backups) <= retain {
		return nil, err
	}

	stale := backups[:len(backups)-retain]
	for i, path := range stale {
		if err := os.Remove(path); err != nil {
			return stale[:i], errors.Wrapf(err, "remove old backup %s", path)
		}
	}
	return stale, nil
}

// cronLogger routes the scheduler's own messages into our logger
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keyValueFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, err, keyValueFields(keysAndValues))
}

func keyValueFields(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
