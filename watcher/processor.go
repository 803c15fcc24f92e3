package watcher

import (
	"github.com/serisow/pdfclerk/config"
	"github.com/serisow/pdfclerk/pipeline"
	"github.com/serisow/pdfclerk/plugin_registry"
)

// PipelineProcessor builds and runs the standard annotation pipeline.
type PipelineProcessor struct {
	cfg       config.Settings
	registry  *plugin_registry.PluginRegistry
	extractor pipeline.TextExtractor
}

func NewPipelineProcessor(cfg config.Settings, registry *plugin_registry.PluginRegistry, extractor pipeline.TextExtractor) *PipelineProcessor {
	return &PipelineProcessor{
		cfg:       cfg,
		registry:  registry,
		extractor: extractor,
	}
}

func (p *PipelineProcessor) Process(path string) (*pipeline.Context, error) {
	pl, err := pipeline.NewAnnotationPipeline(p.cfg, p.registry, p.extractor, path)
	if err != nil {
		return nil, err
	}
	if err := pipeline.ExecutePipeline(pl); err != nil {
		return pl.Context, err
	}
	return pl.Context, nil
}
