// Package mcp exposes the question answering pipeline as a Model
// Context Protocol server over stdio. Any MCP-capable client can call
// the ask_wiki tool to query the MCLabs wiki knowledge base.
//
// The protocol owns stdout, so all logging must go to stderr.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/labsmc/wikigpt/internal/api"
)

// Config holds the MCP server configuration.
type Config struct {
	Name    string
	Version string
	Query   api.QueryService
	Logger  *slog.Logger
}

// Server wraps the MCP SDK server around the query pipeline.
type Server struct {
	mcpServer *mcp.Server
	query     api.QueryService
	logger    *slog.Logger
}

// NewServer creates an MCP server with the ask_wiki tool registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Query == nil {
		return nil, fmt.Errorf("query service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		query:  cfg.Query,
		logger: logger,
	}

	if err := s.registerAskWiki(); err != nil {
		return nil, fmt.Errorf("registering ask_wiki: %w", err)
	}

	return s, nil
}

// Run starts the server on the given transport and blocks until the
// client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// AskWikiInput is the input schema for the ask_wiki tool.
type AskWikiInput struct {
	Question string `json:"question" jsonschema:"The question to ask about the MCLabs wiki"`
}

func (s *Server) registerAskWiki() error {
	inputSchema, err := jsonschema.For[AskWikiInput](nil)
	if err != nil {
		return fmt.Errorf("creating input schema: %w", err)
	}

	tool := &mcp.Tool{
		Name:        "ask_wiki",
		Description: "Answer a question about the MCLabs Minecraft server using the wiki knowledge base. Returns the answer along with the wiki pages it was grounded on.",
		InputSchema: inputSchema,
	}

	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in AskWikiInput) (*mcp.CallToolResult, any, error) {
		question := strings.TrimSpace(in.Question)
		if question == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "question must not be empty"}},
				IsError: true,
			}, nil, nil
		}

		answer, err := s.query.Run(ctx, question)
		if err != nil {
			s.logger.Error("ask_wiki failed", "error", err)
			return nil, nil, fmt.Errorf("answering question: %w", err)
		}

		var b strings.Builder
		b.WriteString(answer.Text)
		if len(answer.Context) > 0 {
			b.WriteString("\n\nSources:\n")
			for _, c := range answer.Context {
				b.WriteString("- ")
				b.WriteString(c.Title)
				b.WriteString("\n")
			}
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: b.String()}},
		}, nil, nil
	})

	return nil
}
