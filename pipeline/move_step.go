package pipeline

import (
	"context"
	"fmt"

	"github.com/serisow/pdfclerk/annotation"
	"github.com/serisow/pdfclerk/relocate"
)

// MoveStepImpl relocates the annotated file into the output directory
// under its suggested name, never overwriting prior output.
type MoveStepImpl struct {
	PipelineStep
	OutputDir string
}

func (s *MoveStepImpl) Execute(ctx context.Context, pipelineContext *Context) error {
	path, ok := pipelineContext.Get("file_path")
	if !ok {
		return fmt.Errorf("file_path not set in pipeline context")
	}

	var suggested string
	if rec, ok := pipelineContext.Get("record"); ok {
		if record, ok := rec.(annotation.Record); ok {
			suggested = record.Filename
		}
	}

	finalPath, err := relocate.Move(path.(string), suggested, s.OutputDir)
	if err != nil {
		return fmt.Errorf("error moving file to output directory: %w", err)
	}

	pipelineContext.Set("final_path", finalPath)
	if s.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.StepOutputKey, finalPath)
	}
	return nil
}

func (s *MoveStepImpl) GetType() string {
	return "move_step"
}
