package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/apperrors"
	"github.com/picogrid/convoy-tracker/pkg/config"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

const banner = "Drone Convoy Accuracy Tracker\n\n" +
	"  POST /graphql      query/mutation envelope\n" +
	"  GET  /graphql      interactive console (when enabled)\n" +
	"  GET  /graphql/ws   subscription transport\n" +
	"  GET  /health       liveness\n"

// Server is the HTTP facade: the operation endpoint, the subscription
// transport, and the auxiliary routes.
type Server struct {
	cfg      config.ServerConfig
	resolver *Resolver
	router   chi.Router
	log      *zap.Logger
}

// NewServer assembles the router. The caller owns the http.Server that
// serves Handler().
func NewServer(cfg config.ServerConfig, resolver *Resolver, log *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		log:      log.Named("server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/graphql", s.handleOperation)
	r.Get("/graphql", s.handlePlayground)
	r.Get("/graphql/ws", s.handleSubscriptions)

	s.router = r
	return s
}

// Handler returns the assembled HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(banner))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// handleOperation executes one query or mutation from the JSON envelope.
func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	var req models.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.InvalidInput("malformed request envelope: "+err.Error()))
		return
	}

	doc, perr := parseDocument(req.Query, s.cfg.MaxQueryDepth, s.cfg.MaxQueryComplexity)
	if perr != nil {
		s.writeError(w, perr)
		return
	}

	if doc.Operation == "__schema" {
		if !s.cfg.EnableIntrospection {
			s.writeError(w, apperrors.InvalidInput("introspection is disabled"))
			return
		}
		s.writeData(w, "__schema", operationCatalog())
		return
	}

	result, rerr := s.resolver.execute(r.Context(), doc.Operation, req.Variables)
	if rerr != nil {
		s.log.Warn("operation failed",
			zap.String("operation", doc.Operation),
			zap.String("code", string(rerr.Code)),
			zap.Error(rerr))
		s.writeError(w, rerr, doc.Operation)
		return
	}
	s.writeData(w, doc.Operation, result)
}

func (s *Server) handlePlayground(w http.ResponseWriter, _ *http.Request) {
	if !s.cfg.EnablePlayground {
		http.Error(w, "playground disabled", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(playgroundHTML))
}

func (s *Server) writeData(w http.ResponseWriter, op string, result interface{}) {
	resp := models.OperationResponse{Data: map[string]interface{}{op: result}}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("response encoding failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err *apperrors.Error, path ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode())
	if encErr := json.NewEncoder(w).Encode(errorResponse(err, path...)); encErr != nil {
		s.log.Error("error encoding failed", zap.Error(encErr))
	}
}
