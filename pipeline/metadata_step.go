package pipeline

import (
	"context"
	"fmt"

	"github.com/serisow/pdfclerk/annotation"
	"github.com/serisow/pdfclerk/pdfmeta"
)

// MetadataStepImpl rewrites the candidate file's document information
// from the generated record. The file stays at its current path.
type MetadataStepImpl struct {
	PipelineStep
}

func (s *MetadataStepImpl) Execute(ctx context.Context, pipelineContext *Context) error {
	path, ok := pipelineContext.Get("file_path")
	if !ok {
		return fmt.Errorf("file_path not set in pipeline context")
	}

	rec, ok := pipelineContext.Get("record")
	if !ok {
		return fmt.Errorf("metadata record not set in pipeline context")
	}
	record, ok := rec.(annotation.Record)
	if !ok {
		return fmt.Errorf("unexpected type %T for metadata record", rec)
	}

	err := pdfmeta.Apply(path.(string), pdfmeta.DocInfo{
		Title:    record.Title,
		Subject:  record.Summary,
		Keywords: record.Keywords,
	})
	if err != nil {
		return fmt.Errorf("error writing PDF metadata: %w", err)
	}

	if s.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.StepOutputKey, record.Title)
	}
	return nil
}

func (s *MetadataStepImpl) GetType() string {
	return "metadata_step"
}
