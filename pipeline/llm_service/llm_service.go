package llm_service

import "context"

// LLMService is one request/response exchange with a text-generation
// provider. Implementations do not retry: a failed file is picked up
// again on the next poll cycle.
type LLMService interface {
	CallLLM(ctx context.Context, config map[string]interface{}, prompt string) (string, error)
}
