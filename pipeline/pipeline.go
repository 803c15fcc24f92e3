package pipeline

import (
	"context"
	"fmt"

	"github.com/serisow/pdfclerk/config"
	"github.com/serisow/pdfclerk/plugin_registry"
)

// PipelineStep carries the static configuration of one step.
type PipelineStep struct {
	ID               string
	Type             string
	StepOutputKey    string
	LLMServiceConfig map[string]interface{}
}

// Pipeline is the per-file unit of work: generate metadata, write it
// into the PDF, move the PDF to the output directory.
type Pipeline struct {
	FilePath string
	Steps    []Step
	Context  *Context
}

// NewAnnotationPipeline wires the three fixed stages for one candidate
// file, resolving the LLM service by the configured provider name.
func NewAnnotationPipeline(cfg config.Settings, registry *plugin_registry.PluginRegistry, extractor TextExtractor, filePath string) (*Pipeline, error) {
	llmServiceInstance, ok := registry.GetLLMService(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unknown LLM service: %s", cfg.Provider)
	}

	steps := []Step{
		&GenerateStepImpl{
			PipelineStep: PipelineStep{
				ID:               "generate_metadata",
				Type:             "llm_step",
				StepOutputKey:    "metadata_record",
				LLMServiceConfig: llmServiceConfig(cfg),
			},
			LLMServiceInstance: llmServiceInstance,
			Extractor:          extractor,
			RequestTimeout:     cfg.RequestTimeout,
		},
		&MetadataStepImpl{
			PipelineStep: PipelineStep{
				ID:            "write_metadata",
				Type:          "metadata_step",
				StepOutputKey: "written_title",
			},
		},
		&MoveStepImpl{
			PipelineStep: PipelineStep{
				ID:            "relocate_file",
				Type:          "move_step",
				StepOutputKey: "final_path",
			},
			OutputDir: cfg.OutputDir,
		},
	}

	p := &Pipeline{
		FilePath: filePath,
		Steps:    steps,
		Context:  NewContext(),
	}
	p.Context.Set("file_path", filePath)
	return p, nil
}

func llmServiceConfig(cfg config.Settings) map[string]interface{} {
	return map[string]interface{}{
		"api_url":    cfg.APIURL,
		"api_key":    cfg.APIKey,
		"model_name": cfg.ModelName,
		"parameters": map[string]interface{}{
			"temperature":        1.0,
			"top_p":              0.95,
			"top_k":              64.0,
			"max_tokens":         8192.0,
			"response_mime_type": "application/json",
		},
	}
}

// ExecutePipeline runs the steps in order. The first failure stops the
// pipeline and comes back as a StageError naming the failed stage.
func ExecutePipeline(p *Pipeline) error {
	ctx := context.Background()
	if p.Context == nil {
		p.Context = NewContext()
		p.Context.Set("file_path", p.FilePath)
	}

	for _, step := range p.Steps {
		if err := step.Execute(ctx, p.Context); err != nil {
			return &StageError{
				Stage: stageForType(step.GetType()),
				Path:  p.FilePath,
				Err:   err,
			}
		}
	}
	return nil
}

func stageForType(stepType string) Stage {
	switch stepType {
	case "metadata_step":
		return StageWriteMetadata
	case "move_step":
		return StageMove
	default:
		return StageGenerate
	}
}
