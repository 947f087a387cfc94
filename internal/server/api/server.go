package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tiredepot/internal/clock"
	"tiredepot/internal/logging"
	"tiredepot/internal/server/services"
)

// Server bundles the HTTP handlers over the deposit core.
type Server struct {
	deposits     *services.DepositService
	clients      *services.ClientService
	reminders    *services.ReminderService
	clock        clock.Clock
	logger       logging.Logger
	defaultActor string
}

// NewServer constructs the HTTP surface of the deposit service.
func NewServer(deposits *services.DepositService, clients *services.ClientService,
	reminders *services.ReminderService, clk clock.Clock, logger logging.Logger, defaultActor string) *Server {
	return &Server{
		deposits:     deposits,
		clients:      clients,
		reminders:    reminders,
		clock:        clk,
		logger:       logger.With("module", "http_server"),
		defaultActor: defaultActor,
	}
}

// Router wires all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/stats", s.handleStats)
		r.Get("/emails", s.handleListEmails)

		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", s.handleCreateDeposit)
			r.Get("/", s.handleListDeposits)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDeposit)
				r.Put("/", s.handleEditDeposit)
				r.Delete("/", s.handleDeleteDeposit)
				r.Post("/issue", s.handleMarkIssued)
				r.Post("/activate", s.handleMarkActive)
				r.Get("/history", s.handleGetHistory)
			})
		})

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", s.handleCreateClient)
			r.Get("/", s.handleListClients)
			r.Get("/by-barcode/{barcode}", s.handleGetClientByBarcode)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetClient)
				r.Put("/", s.handleEditClient)
				r.Delete("/", s.handleDeleteClient)
				r.Put("/barcode", s.handleAssignBarcode)
				r.Get("/deposits", s.handleListClientDeposits)
			})
		})
	})

	return r
}

// requestLogger logs one line per request with the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start).String())
	})
}

// actor resolves the audit actor for a request: the X-Actor header if the
// caller set one, otherwise the configured default.
func (s *Server) actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return s.defaultActor
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
