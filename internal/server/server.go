package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/sw33tLie/a11yscope/internal/utils"
	"github.com/sw33tLie/a11yscope/pkg/checklist"
	"github.com/sw33tLie/a11yscope/pkg/storage"
)

type Server struct {
	DB        *storage.DB
	Checklist *checklist.Service
	Username  string
	Password  string
}

func New(db *storage.DB, svc *checklist.Service, user, pass string) *Server {
	return &Server{
		DB:        db,
		Checklist: svc,
		Username:  user,
		Password:  pass,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	mux.HandleFunc("GET /api/projects", s.basicAuth(s.handleProjects))
	mux.HandleFunc("POST /api/projects", s.basicAuth(s.handleCreateProject))
	mux.HandleFunc("GET /api/projects/{id}", s.basicAuth(s.handleProject))
	mux.HandleFunc("POST /api/projects/{id}/pages", s.basicAuth(s.handleAddPage))
	mux.HandleFunc("GET /api/catalog", s.basicAuth(s.handleCatalog))
	mux.HandleFunc("GET /api/catalog/{slug}", s.basicAuth(s.handleDocument))
	mux.HandleFunc("GET /api/pages/{id}/checklist", s.basicAuth(s.handleChecklist))
	mux.HandleFunc("GET /api/pages/{id}/checklist/{slug}", s.basicAuth(s.handleChecklist))
	mux.HandleFunc("POST /api/pages/{id}/results", s.basicAuth(s.handleSubmitResult))
	mux.HandleFunc("GET /api/pages/{id}/results/latest", s.basicAuth(s.handleLatestResults))

	return mux
}

// Start serves the API on addr until ctx is canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting server on %s", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		utils.Log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.Username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.Password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
