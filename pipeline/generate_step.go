package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/serisow/pdfclerk/annotation"
	"github.com/serisow/pdfclerk/pipeline/llm_service"
)

// TextExtractor turns a candidate file into prompt-ready text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// GenerateStepImpl extracts the document's text, sends it to the
// configured LLM and parses the response into the metadata record the
// later stages consume.
type GenerateStepImpl struct {
	PipelineStep
	LLMServiceInstance llm_service.LLMService
	Extractor          TextExtractor
	RequestTimeout     time.Duration
}

func (s *GenerateStepImpl) Execute(ctx context.Context, pipelineContext *Context) error {
	path, ok := pipelineContext.Get("file_path")
	if !ok {
		return fmt.Errorf("file_path not set in pipeline context")
	}
	filePath := path.(string)

	if s.LLMServiceInstance == nil {
		return fmt.Errorf("LLMService is not initialized for step %s", s.ID)
	}

	text, err := s.Extractor.ExtractText(filePath)
	if err != nil {
		return fmt.Errorf("error extracting document text: %w", err)
	}

	callCtx := ctx
	if s.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.RequestTimeout)
		defer cancel()
	}

	result, err := s.LLMServiceInstance.CallLLM(callCtx, s.LLMServiceConfig, annotation.BuildPrompt(text))
	if err != nil {
		return fmt.Errorf("error calling LLM service for step %s: %w", s.ID, err)
	}

	record, err := annotation.ParseRecord(result)
	if err != nil {
		return fmt.Errorf("error parsing LLM response for step %s: %w", s.ID, err)
	}

	pipelineContext.Set("record", record)
	if s.StepOutputKey != "" {
		pipelineContext.SetStepOutput(s.StepOutputKey, record)
	}
	return nil
}

func (s *GenerateStepImpl) GetType() string {
	return "llm_step"
}
