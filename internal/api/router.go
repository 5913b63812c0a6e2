// Package api exposes the tracker over HTTP/JSON.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"famcare/internal/notify"
	"famcare/internal/provider"
)

// Server represents the API server
type Server struct {
	router   chi.Router
	handlers *Handlers
	hub      *notify.Hub

	// filesDir, when set, is served under /files/ for uploads stored
	// on disk. Empty for the in-memory backend.
	filesDir string
}

// NewServer creates a new API server over the provider. Record changes
// flow from the provider's bus to SSE clients for the server's lifetime.
func NewServer(p *provider.Provider, filesDir string) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		handlers: NewHandlers(p),
		hub:      notify.NewHub(),
		filesDir: filesDir,
	}

	changes := make(chan notify.Change, 100)
	p.Bus().Subscribe(changes)
	go s.hub.Run()
	go func() {
		for change := range changes {
			s.hub.Broadcast(change)
		}
	}()

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handlers.ListEvents)
			r.Post("/", s.handlers.CreateEvent)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handlers.GetEvent)
				r.Patch("/", s.handlers.UpdateEvent)
				r.Delete("/", s.handlers.DeleteEvent)

				r.Get("/photos", s.handlers.ListEventPhotos)
				r.Post("/photos", s.handlers.LinkPhoto)
				r.Get("/recordings", s.handlers.ListEventRecordings)
				r.Post("/recordings", s.handlers.AddRecording)
				r.Post("/uploads", s.handlers.UploadFile)
			})
		})

		r.Delete("/photos/{id}", s.handlers.UnlinkPhoto)
		r.Delete("/recordings/{id}", s.handlers.DeleteRecording)

		r.Get("/members", s.handlers.ListMembers)
		r.Get("/event-types", s.handlers.ListEventTypes)

		r.Get("/export/{format}", s.handlers.ExportArchive)
		r.Post("/import/{format}", s.handlers.ImportArchive)

		r.Get("/stream", s.hub.ServeHTTP)
	})

	if s.filesDir != "" {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(s.filesDir)))
		s.router.Get("/files/*", fs.ServeHTTP)
	}
}

// Router returns the chi router
func (s *Server) Router() http.Handler {
	return s.router
}
