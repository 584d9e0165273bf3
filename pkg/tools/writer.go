// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/zainaedelson/quartet/pkg/artifact"
	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/llm"
)

// WriterToolName is how briefs and the inference backend refer to the
// document-write capability.
const WriterToolName = "write_document"

var _ core.Tool = (*WriterTool)(nil)

// WriterTool persists document content through the artifact store. It is
// bound to the store's well-known name; asking it to write anywhere else
// is a failure, not a redirect.
type WriterTool struct {
	store *artifact.Store
}

// NewWriterTool creates a document-write tool over the given store.
func NewWriterTool(store *artifact.Store) *WriterTool {
	return &WriterTool{store: store}
}

// Name implements core.Tool.
func (t *WriterTool) Name() string {
	return WriterToolName
}

// Definition describes the tool to the inference backend.
func (t *WriterTool) Definition() llm.Tool {
	return llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        WriterToolName,
			Description: fmt.Sprintf("Write the full document content to %s, replacing any previous version.", t.store.Name()),
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filename": map[string]interface{}{
						"type":        "string",
						"description": fmt.Sprintf("Must be %s or omitted.", t.store.Name()),
					},
					"content": map[string]interface{}{
						"type":        "string",
						"description": "The complete Markdown document.",
					},
				},
				"required": []string{"content"},
			},
		},
	}
}

// Call implements core.Tool. Input is a map with an optional "filename"
// and a required "content".
func (t *WriterTool) Call(_ context.Context, input any) (any, error) {
	args, ok := input.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("write_document expects an arguments object")
	}

	if filename := stringArg(args, "filename"); filename != "" && filename != t.store.Name() {
		return nil, fmt.Errorf("write_document is bound to %s, refusing to write %s", t.store.Name(), filename)
	}

	content := stringArg(args, "content")
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("write_document requires non-empty content")
	}

	if err := t.store.Write(content); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Document written to %s.", t.store.Name()), nil
}

func stringArg(args map[string]interface{}, key string) string {
	if raw, ok := args[key]; ok {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
