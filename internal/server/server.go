// Package server exposes the dialog engine over the gateway's HTTP
// callback contract.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/village-market/internal/dialog"
)

// Form fields posted by the gateway.
const (
	fieldSessionID = "sessionId"
	fieldPhone     = "phoneNumber"
	fieldText      = "text"
)

// Handler answers one dialog turn.
type Handler interface {
	Handle(ctx context.Context, req dialog.Request) (dialog.Screen, error)
}

// Server routes gateway callbacks to the dialog engine.
type Server struct {
	router  chi.Router
	dialogs Handler
	logger  *zap.Logger
}

// New returns a Server. A nil logger discards output.
func New(dialogs Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:  chi.NewRouter(),
		dialogs: dialogs,
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/ussd", s.handleUSSD)
	s.router.Post("/", s.handleUSSD)
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUSSD(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := dialog.Request{
		SessionID: strings.TrimSpace(r.FormValue(fieldSessionID)),
		Phone:     strings.TrimSpace(r.FormValue(fieldPhone)),
		Text:      strings.TrimSpace(r.FormValue(fieldText)),
	}

	log := s.logger.With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("session", req.SessionID),
		zap.String("phone", req.Phone),
		zap.String("text", req.Text),
	)

	screen, err := s.dialogs.Handle(r.Context(), req)
	if errors.Is(err, dialog.ErrMissingSession) {
		log.Warn("ussd rejected", zap.Error(err))
		http.Error(w, "Missing sessionId", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error("ussd failed", zap.Error(err))
		screen = dialog.UnavailableScreen
	} else {
		log.Info("ussd", zap.Bool("end", screen.End))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, screen.String())
}

// Serve accepts connections on ln until ctx is done, then shuts down,
// giving in-flight turns up to shutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server_start", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server_stop")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
