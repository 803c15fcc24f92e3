package watcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/serisow/pdfclerk/config"
	"github.com/serisow/pdfclerk/pipeline"
	"github.com/serisow/pdfclerk/relocate"
)

// Processor runs the full annotation pipeline for one candidate file and
// returns the pipeline context for outcome reporting.
type Processor interface {
	Process(path string) (*pipeline.Context, error)
}

// Watcher polls the input directory and feeds candidates one at a time
// through the processor. One file is fully processed before the next is
// considered.
type Watcher struct {
	cfg       config.Settings
	processor Processor
	logger    *slog.Logger

	// attempts counts consecutive per-path failures within this run.
	// Once MaxAttempts is reached the file is quarantined so it stops
	// being rescanned forever.
	attempts map[string]int
}

func New(cfg config.Settings, processor Processor, logger *slog.Logger) *Watcher {
	return &Watcher{
		cfg:       cfg,
		processor: processor,
		logger:    logger,
		attempts:  make(map[string]int),
	}
}

// Start runs the poll loop until a fatal condition occurs. Per-file
// failures are logged and never returned.
func (w *Watcher) Start() error {
	w.logger.Info("Monitoring input directory",
		slog.String("input_dir", w.cfg.InputDir),
		slog.String("file_pattern", w.cfg.FilePattern),
		slog.String("output_dir", w.cfg.OutputDir),
		slog.Duration("poll_interval", w.cfg.PollInterval),
		slog.Duration("task_pause", w.cfg.TaskPause))

	for {
		candidates, err := w.Scan()
		if err != nil {
			return err
		}

		for _, path := range candidates {
			w.ProcessFile(path)
			time.Sleep(w.cfg.TaskPause)
		}

		time.Sleep(w.cfg.PollInterval)
	}
}

// Scan lists candidate files in the input directory, sorted for a
// deterministic processing order. A vanished or unreadable input
// directory is fatal.
func (w *Watcher) Scan() ([]string, error) {
	if _, err := os.Stat(w.cfg.InputDir); err != nil {
		return nil, fmt.Errorf("input directory '%s' is no longer accessible: %w", w.cfg.InputDir, err)
	}

	matches, err := filepath.Glob(filepath.Join(w.cfg.InputDir, w.cfg.FilePattern))
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern '%s': %w", w.cfg.FilePattern, err)
	}

	candidates := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, m)
	}
	sort.Strings(candidates)

	w.pruneAttempts(candidates)
	return candidates, nil
}

// pruneAttempts drops counters for files that left the input directory
// by other means (manual cleanup, successful processing).
func (w *Watcher) pruneAttempts(candidates []string) {
	present := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		present[c] = true
	}
	for path := range w.attempts {
		if !present[path] {
			delete(w.attempts, path)
		}
	}
}

// ProcessFile runs the pipeline for one file and records the outcome.
func (w *Watcher) ProcessFile(path string) {
	logCtx := w.logger.With(slog.String("file", path))
	logCtx.Info("Processing file")

	id := uuid.New().String()
	now := timeNow()
	pipeline.AddOutcome(id, &pipeline.Outcome{
		ID:          id,
		Path:        path,
		Status:      pipeline.StatusStarted,
		StartTime:   now.Unix(),
		SubmittedAt: now.Format(time.RFC3339),
	})

	pctx, err := w.processor.Process(path)
	done := timeNow()

	if err != nil {
		var stage string
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			stage = string(stageErr.Stage)
		}

		pipeline.UpdateOutcome(id, func(o *pipeline.Outcome) {
			o.Status = pipeline.StatusFailed
			o.Stage = stage
			o.ErrorMessage = err.Error()
			o.EndTime = done.Unix()
			o.CompletedAt = done.Format(time.RFC3339)
		})

		logCtx.Error("Failed to process file",
			slog.String("stage", stage),
			slog.String("error", err.Error()))

		w.attempts[path]++
		if w.attempts[path] >= w.cfg.MaxAttempts {
			w.quarantine(path, logCtx)
			delete(w.attempts, path)
		}
		return
	}

	delete(w.attempts, path)

	var title, outputPath string
	if pctx != nil {
		if v, ok := pctx.Get("final_path"); ok {
			outputPath, _ = v.(string)
		}
		if v, ok := pctx.GetStepOutput("written_title"); ok {
			title, _ = v.(string)
		}
	}

	pipeline.UpdateOutcome(id, func(o *pipeline.Outcome) {
		o.Status = pipeline.StatusCompleted
		o.Title = title
		o.OutputPath = outputPath
		o.EndTime = done.Unix()
		o.CompletedAt = done.Format(time.RFC3339)
	})

	logCtx.Info("File processed",
		slog.String("title", title),
		slog.String("output_path", outputPath))
}

// quarantine moves a repeatedly failing file out of the scan's reach so
// the loop stops burning attempts on it.
func (w *Watcher) quarantine(path string, logCtx *slog.Logger) {
	if err := os.MkdirAll(w.cfg.QuarantineDir, 0755); err != nil {
		logCtx.Error("Failed to create quarantine directory",
			slog.String("quarantine_dir", w.cfg.QuarantineDir),
			slog.String("error", err.Error()))
		return
	}

	dest, err := relocate.Move(path, "", w.cfg.QuarantineDir)
	if err != nil {
		logCtx.Error("Failed to quarantine file",
			slog.String("error", err.Error()))
		return
	}
	logCtx.Warn("File quarantined after repeated failures",
		slog.Int("attempts", w.cfg.MaxAttempts),
		slog.String("quarantine_path", dest))
}

var timeNow = time.Now
