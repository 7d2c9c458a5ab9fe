// Package server exposes the simulator over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/lovesim/internal/metrics"
	"github.com/abhisek/lovesim/internal/ops"
	"github.com/abhisek/lovesim/internal/quiz"
	"github.com/abhisek/lovesim/internal/session"
)

// DefaultRequestTimeout bounds every orchestrator call.
const DefaultRequestTimeout = 120 * time.Second

// Deps are the collaborators the handlers call into. Metrics and Events
// are optional.
type Deps struct {
	Scenarios quiz.Scenarios
	Grader    quiz.Grader
	Reporter  quiz.Reporter
	Quiz      *quiz.Service
	Events    *ops.Bus
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Server routes API requests to the orchestrators.
type Server struct {
	scenarios quiz.Scenarios
	grader    quiz.Grader
	reporter  quiz.Reporter
	quiz      *quiz.Service
	events    *ops.Bus
	metrics   *metrics.Metrics
	logger    *zap.Logger

	timeout time.Duration
	origins []string
	router  chi.Router
}

// New builds the server and its routes.
func New(d Deps) *Server {
	s := &Server{
		scenarios: d.Scenarios,
		grader:    d.Grader,
		reporter:  d.Reporter,
		quiz:      d.Quiz,
		events:    d.Events,
		metrics:   d.Metrics,
		logger:    d.Logger,
		timeout:   d.RequestTimeout,
		origins:   d.AllowedOrigins,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(s.cors)
	r.Use(session.Middleware)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Head("/healthz", s.handleHealthz)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", s.mountAPI)
	// The bare paths are kept for clients that post to /generate etc.
	s.mountAPI(r)

	return r
}

func (s *Server) mountAPI(r chi.Router) {
	s.mountOrchestrator(r, "/generate", s.handleGenerate)
	s.mountOrchestrator(r, "/next-situation", s.handleNextSituation)
	s.mountOrchestrator(r, "/evaluate-choice", s.handleEvaluateChoice)
	s.mountOrchestrator(r, "/result", s.handleResult)

	r.Route("/quiz", func(r chi.Router) {
		r.Get("/", s.handleQuizGet)
		r.Delete("/", s.handleQuizReset)
		r.Post("/start", s.handleQuizStart)
		r.Post("/answer", s.handleQuizAnswer)
		r.Post("/advance", s.handleQuizAdvance)
	})

	r.Get("/presets", s.handlePresets)
	r.Get("/presets/{id}", s.handlePreset)

	r.Get("/ops/events", s.handleEventStream)
	r.Get("/ops/ws", s.handleEventSocket)
}

// mountOrchestrator registers a POST handler plus the GET/HEAD/OPTIONS
// probes that answer {ok:true}.
func (s *Server) mountOrchestrator(r chi.Router, path string, h http.HandlerFunc) {
	r.Post(path, h)
	r.Get(path, s.handleOK)
	r.Head(path, s.handleOK)
	r.Options(path, s.handleOK)
}
