package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/resource"
	"github.com/aretw0/edgebridge/pkg/units"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBody bounds a command request body.
const maxBody = 1 << 20

// Bridge is the command and resource surface served over HTTP.
type Bridge interface {
	Commands() []dispatch.Descriptor
	Resources() []resource.Spec
	Units() units.System
	InvokeVariant(ctx context.Context, command, variant string, params map[string]any) envelope.Envelope
	Read(ctx context.Context, uri string) envelope.Envelope
	Status(ctx context.Context) envelope.Envelope
}

var _ Bridge = (*edgebridge.Bridge)(nil)

// Server serves one Bridge.
type Server struct {
	bridge  Bridge
	logger  *slog.Logger
	metrics http.Handler
	spec    *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the bridge.
func NewHandler(bridge Bridge, opts ...Option) http.Handler {
	s := &Server{
		bridge: bridge,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.spec = OpenAPI(bridge.Commands())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.GetHealth)
	r.Get("/status", s.GetStatus)
	r.Get("/catalog", s.GetCatalog)
	r.Get("/openapi.json", s.GetOpenAPI)
	r.Get("/resources", s.ReadResource)
	r.Post("/commands/{name}", s.InvokeCommand)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// InvokeCommand handles POST /commands/{name}. The body is the flat parameter
// bag; the variant comes from ?variant= or the discriminator key in the body.
func (s *Server) InvokeCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	params := map[string]any{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeEnvelope(w, envelope.Fail(domain.Errorf(domain.KindMissingParameter, "read body: %v", err)))
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			s.writeEnvelope(w, envelope.Fail(domain.Errorf(domain.KindMissingParameter, "body must be a JSON object: %v", err)))
			return
		}
	}

	env := s.bridge.InvokeVariant(r.Context(), name, r.URL.Query().Get("variant"), params)
	if !env.IsOK() {
		s.logger.Debug("Command failed", "command", name, "kind", env.Error, "message", env.Message)
	}
	s.writeEnvelope(w, env)
}

// ReadResource handles GET /resources?uri=.
func (s *Server) ReadResource(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		s.writeEnvelope(w, envelope.Fail(domain.Errorf(domain.KindMissingParameter, "query parameter %q is required", "uri")))
		return
	}
	s.writeEnvelope(w, s.bridge.Read(r.Context(), uri))
}

// GetStatus handles GET /status, the HTTP form of the connection probe.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.writeEnvelope(w, s.bridge.Status(r.Context()))
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Describe(s.bridge.Commands(), s.bridge.Resources(), s.bridge.Units()), s.logger)
}

// GetOpenAPI handles GET /openapi.json.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.spec, s.logger)
}

// GetHealth handles GET /healthz. It does not touch the engine.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     "edgebridge-http",
		"version": strings.TrimSpace(edgebridge.Version),
	}, s.logger)
}

func (s *Server) writeEnvelope(w http.ResponseWriter, env envelope.Envelope) {
	writeJSON(w, StatusCode(env), env, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		logger.Error("Response encode failed", "err", err)
	}
}

// StatusCode maps an envelope to an HTTP status. The envelope body is
// authoritative; the code only helps generic HTTP clients.
func StatusCode(env envelope.Envelope) int {
	if env.IsOK() {
		return http.StatusOK
	}
	switch env.Error {
	case domain.KindUnknownCommand, domain.KindUnknownResource:
		return http.StatusNotFound
	case domain.KindUnknownVariant, domain.KindMissingParameter, domain.KindInvalidResourceParameter:
		return http.StatusBadRequest
	case domain.KindNotConnected, domain.KindNoActiveDocument, domain.KindNoOpenSketch, domain.KindSketchAlreadyOpen:
		return http.StatusConflict
	case domain.KindEngineUnavailable, domain.KindLaunchFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
