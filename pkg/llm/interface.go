// Package llm defines the port used to request chat completions from a
// text-generation provider. The moderation classifier depends only on this
// abstraction; the concrete provider lives in a subpackage.
package llm

import (
	"context"
)

// Client is the abstraction for chat-completion providers. Implementations
// send a fixed instruction plus the user content and return the model's raw
// text reply. Interpreting the reply is the caller's concern.
//
//go:generate mockgen -package mockllm -source=interface.go -destination=mock/mockllm.go *
type Client interface {
	// Complete sends one non-streaming chat completion request. instruction
	// becomes the system message and content the user message.
	Complete(ctx context.Context, instruction, content string) (string, error)
}
