package pipeline

import "fmt"

// Stage identifies which part of the per-file pipeline failed.
type Stage string

const (
	StageGenerate      Stage = "generate"
	StageWriteMetadata Stage = "write_metadata"
	StageMove          Stage = "move"
)

// StageError ties a per-file failure to the stage it happened in. Files
// that fail are left in place; the orchestrator decides what to do next.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for '%s': %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
