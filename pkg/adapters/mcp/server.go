package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/resource"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StatusTool is the name of the connection probe tool.
const StatusTool = "connection_status"

// Bridge is the command and resource surface the MCP server publishes.
type Bridge interface {
	Commands() []dispatch.Descriptor
	Resources() []resource.Spec
	Invoke(ctx context.Context, command string, params map[string]any) envelope.Envelope
	Read(ctx context.Context, uri string) envelope.Envelope
	Status(ctx context.Context) envelope.Envelope
}

// Server wraps a Bridge and exposes it as an MCP Server.
type Server struct {
	bridge    Bridge
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for transport events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(bridge Bridge, opts ...Option) *Server {
	s := &Server{
		bridge: bridge,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("edgebridge", strings.TrimSpace(edgebridge.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	for _, desc := range s.bridge.Commands() {
		s.mcpServer.AddTool(Tool(desc), s.commandHandler(desc.Name))
	}

	s.mcpServer.AddTool(mcp.NewTool(StatusTool,
		mcp.WithDescription("Probe the engine connection. Reports connected=false instead of failing when the link is gone."),
		mcp.WithReadOnlyHintAnnotation(true),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(s.bridge.Status(ctx)), nil
	})
}

func (s *Server) commandHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env := s.bridge.Invoke(ctx, name, request.GetArguments())
		if !env.IsOK() {
			s.logger.Debug("MCP tool call failed", "tool", name, "kind", env.Error, "message", env.Message)
		}
		return toolResult(env), nil
	}
}

// Tool describes a composite command as an MCP tool: the discriminator is an
// enum with the default variant, the other properties are the variants' union.
func Tool(desc dispatch.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(toolDescription(desc)),
		mcp.WithString(desc.Discriminator,
			mcp.Enum(desc.Values()...),
			mcp.DefaultString(desc.Default),
			mcp.Description(fmt.Sprintf("Selects the variant (default %q).", desc.Default)),
		),
	}
	readOnly := true
	for _, v := range desc.Variants {
		if v.Effect != registry.ReadOnly {
			readOnly = false
		}
	}
	if readOnly {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}
	for _, p := range desc.Params {
		opts = append(opts, property(p))
	}
	return mcp.NewTool(desc.Name, opts...)
}

func toolDescription(desc dispatch.Descriptor) string {
	var b strings.Builder
	b.WriteString(desc.Description)
	for _, v := range desc.Variants {
		names := make([]string, len(v.Params))
		for i, p := range v.Params {
			names[i] = p.Name
		}
		fmt.Fprintf(&b, "\n- %s=%s: %s", desc.Discriminator, v.Value, v.Description)
		if len(names) > 0 {
			fmt.Fprintf(&b, " (params: %s)", strings.Join(names, ", "))
		}
	}
	return b.String()
}

func property(p registry.Param) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch t := p.Type.(type) {
	case *schema.EnumType:
		opts = append(opts, mcp.Enum(t.Values()...))
		if def, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(def))
		}
		return mcp.WithString(p.Name, opts...)
	case *schema.BoolType:
		if def, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(def))
		}
		return mcp.WithBoolean(p.Name, opts...)
	case *schema.IntType:
		if def, ok := p.Default.(int); ok {
			opts = append(opts, mcp.DefaultNumber(float64(def)))
		}
		opts = append(opts, integer)
		return mcp.WithNumber(p.Name, opts...)
	case *schema.FloatType:
		if def, ok := p.Default.(float64); ok {
			opts = append(opts, mcp.DefaultNumber(def))
		}
		return mcp.WithNumber(p.Name, opts...)
	case *schema.SliceType:
		if _, ok := t.Elem().(*schema.FloatType); ok {
			opts = append(opts, mcp.WithNumberItems())
		}
		return mcp.WithArray(p.Name, opts...)
	}
	if def, ok := p.Default.(string); ok && def != "" {
		opts = append(opts, mcp.DefaultString(def))
	}
	return mcp.WithString(p.Name, opts...)
}

func integer(prop map[string]any) {
	prop["type"] = "integer"
}

func toolResult(env envelope.Envelope) *mcp.CallToolResult {
	text, err := json.Marshal(env)
	if err != nil {
		return mcp.NewToolResultErrorf("encode result: %v", err)
	}
	result := mcp.NewToolResultStructured(env, string(text))
	result.IsError = !env.IsOK()
	return result
}

func (s *Server) registerResources() {
	for _, spec := range s.bridge.Resources() {
		handler := s.resourceHandler()
		if spec.Templated() {
			s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(spec.URI, spec.Name,
				mcp.WithTemplateDescription(spec.Description),
				mcp.WithTemplateMIMEType(spec.MIMEType),
			), server.ResourceTemplateHandlerFunc(handler))
			continue
		}
		s.mcpServer.AddResource(mcp.NewResource(spec.URI, spec.Name,
			mcp.WithResourceDescription(spec.Description),
			mcp.WithMIMEType(spec.MIMEType),
		), handler)
	}
}

// resourceHandler reports failures inside the envelope rather than as protocol errors.
func (s *Server) resourceHandler() server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		env := s.bridge.Read(ctx, uri)
		text, err := json.Marshal(env)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(text),
			},
		}, nil
	}
}

var _ Bridge = (*edgebridge.Bridge)(nil)
