package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"linkrelay/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	healthBody = "OK"
	mameBody   = "Hell yeah, 85 ;)"

	maxUpdateSize = 1 << 20
)

type Server struct {
	token   string
	webhook http.Handler
	server  *http.Server
}

// New builds the HTTP surface. webhook may be nil when the
// bot is polling, in which case webhook posts are rejected.
func New(port int, token string, webhook http.Handler) *Server {
	s := &Server{
		token:   token,
		webhook: webhook,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", textHandler(healthBody))
	mux.HandleFunc("GET /mame", textHandler(mameBody))
	mux.HandleFunc("POST /webhook/{token}", s.webhookHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("http server listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	zap.S().Info("shutting down http server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func textHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, body)
	}
}

func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("token") != s.token {
		metrics.RecordMessage("forbidden")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("forbidden"))
		return
	}
	if s.webhook == nil {
		http.Error(w, "webhook disabled", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateSize))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if chatID := updateChatID(body); chatID == 0 {
		zap.S().Debugf("rejected update without chat id: %s", body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false}`)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	s.webhook.ServeHTTP(w, r)
}

// updateChatID returns the chat an update belongs to, or 0.
func updateChatID(body []byte) int64 {
	if !gjson.ValidBytes(body) {
		return 0
	}
	result := gjson.GetManyBytes(
		body,
		"message.chat.id",
		"callback_query.message.chat.id",
	)
	for _, id := range result {
		if id.Exists() && id.Int() != 0 {
			return id.Int()
		}
	}
	return 0
}
