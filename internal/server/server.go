package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
)

// BotInfoProvider отдаёт идентичность бота для /api/bot/info.
// В тестах сервер поднимается без живого бота.
type BotInfoProvider interface {
	BotInfo() map[string]interface{}
}

type Server struct {
	service *service.Service
	bot     BotInfoProvider
	logger  *utils.Logger
	http    *http.Server
}

func NewServer(svc *service.Service, bot BotInfoProvider, logger *utils.Logger) *Server {
	return &Server{
		service: svc,
		bot:     bot,
		logger:  logger,
	}
}

// Handler собирает маршруты JSON API мини-приложения.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/referral/generate", s.handleGenerate)
	mux.HandleFunc("/api/referral/connect", s.handleConnect)
	mux.HandleFunc("/api/referral/stats/", s.handleStats)
	mux.HandleFunc("/api/bot/info", s.handleBotInfo)
	mux.HandleFunc("/api/partner/notify", s.handleNotify)
	mux.HandleFunc("/api/partner/status/", s.handlePartnerStatus)
	mux.HandleFunc("/api/partner/disconnect", s.handleDisconnect)

	return s.withRequestLog(mux)
}

func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Infof("🚀 HTTP API listening on %s", addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// writeError мапит класс ошибки сервиса на HTTP-статус, не протекая деталями.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.logger.Errorf("Internal error: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
