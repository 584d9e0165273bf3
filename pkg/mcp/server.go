// Package mcp exports the pipeline to Model Context Protocol hosts. The
// crew registers as a single compose tool over stdio, and the saved
// document is published as a readable resource.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zainaedelson/quartet/pkg/artifact"
	qerrors "github.com/zainaedelson/quartet/pkg/errors"
)

// ComposeToolName is the tool hosts call to run the pipeline.
const ComposeToolName = "compose"

// DocumentResourceURI addresses the saved document.
const DocumentResourceURI = "quartet://document"

// Responder produces one reply per topic. *crew.Crew satisfies it.
type Responder interface {
	Respond(ctx context.Context, message string) string
}

// Server exposes the pipeline as an MCP tool server.
type Server struct {
	responder Responder
	store     *artifact.Store
	mcpServer *server.MCPServer
}

// NewServer builds the MCP binding around a responder and its document
// store.
func NewServer(name, version string, responder Responder, store *artifact.Store) (*Server, error) {
	if responder == nil {
		return nil, qerrors.New(qerrors.CodeInvalidInput, "responder is required", nil)
	}
	if store == nil {
		return nil, qerrors.New(qerrors.CodeInvalidInput, "document store is required", nil)
	}
	s := &Server{
		responder: responder,
		store:     store,
		mcpServer: server.NewMCPServer(name, version),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

func (s *Server) registerTools() {
	composeTool := mcp.NewTool(ComposeToolName,
		mcp.WithDescription("Run the four-stage writing pipeline (explore, synthesize, refine, polish) for a topic and return the finished answer."),
		mcp.WithString("topic", mcp.Description("Topic or question to answer. Blank runs the default topic.")),
	)
	s.mcpServer.AddTool(composeTool, s.handleCompose)
}

func (s *Server) handleCompose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := request.GetString("topic", "")
	response := s.responder.Respond(ctx, topic)
	return mcp.NewToolResultText(response), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DocumentResourceURI, "Saved pipeline document",
		mcp.WithMIMEType("text/markdown"),
	), s.readDocument)
}

func (s *Server) readDocument(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content, err := s.store.Read()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentResourceURI,
			MIMEType: "text/markdown",
			Text:     content,
		},
	}, nil
}

// ServeStdio runs the server on stdin/stdout until the host disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
