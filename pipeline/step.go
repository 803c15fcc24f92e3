package pipeline

import "context"

type Step interface {
	Execute(ctx context.Context, pipelineContext *Context) error

	GetType() string
}
