package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Registry holds the tools that will be exposed, minus any disabled by name.
type Registry struct {
	logger   *slog.Logger
	tools    map[string]Tool
	disabled map[string]bool
}

// NewRegistry builds an empty registry. Names in disabled are matched
// case-insensitively with '-' and '_' treated alike.
func NewRegistry(logger *slog.Logger, disabled []string) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{logger: logger, tools: map[string]Tool{}, disabled: map[string]bool{}}
	for _, name := range disabled {
		if name = normalise(name); name != "" {
			r.disabled[name] = true
		}
	}
	return r
}

func normalise(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}

// Register adds tools, skipping disabled ones. A duplicate name is an error.
func (r *Registry) Register(tools ...Tool) error {
	for _, t := range tools {
		name := t.Definition().Name
		if r.disabled[normalise(name)] {
			r.logger.Debug("tool disabled", "tool", name)
			continue
		}
		if _, dup := r.tools[name]; dup {
			return fmt.Errorf("tool %q registered twice", name)
		}
		r.tools[name] = t
	}
	return nil
}

// Get returns the named tool when it is enabled.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names lists enabled tools in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the named tool with args.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Execute(ctx, r.logger, args)
}

// Attach registers every enabled tool with srv.
func (r *Registry) Attach(srv *mcpserver.MCPServer) {
	for _, name := range r.Names() {
		toolName := name
		srv.AddTool(r.tools[toolName].Definition(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, ok := request.Params.Arguments.(map[string]any)
			if !ok && request.Params.Arguments != nil {
				return nil, fmt.Errorf("invalid arguments type: expected map[string]any, got %T", request.Params.Arguments)
			}
			return r.Call(ctx, toolName, args)
		})
	}
}
