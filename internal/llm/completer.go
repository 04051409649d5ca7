package llm

import "context"

// Completer defines the interface contract for language model completion.
// CompleteJSON constrains the model to return a single JSON object.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
	ModelName() string
}
