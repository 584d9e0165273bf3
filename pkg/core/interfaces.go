package core

import "context"

// Tool is a side-effecting capability a role may invoke during a stage:
// a web search, a document write. Input is the decoded argument payload
// from the model's tool call.
type Tool interface {
	Name() string
	Call(ctx context.Context, input any) (any, error)
}
