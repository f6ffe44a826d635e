package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llamachat-golang/relay/internal/config"
	"llamachat-golang/relay/internal/gateway"
	"llamachat-golang/relay/internal/groq"
	"llamachat-golang/relay/internal/logger"
	"llamachat-golang/relay/internal/ratelimit"
	"llamachat-golang/relay/internal/security"
	"llamachat-golang/relay/internal/session"
)

func main() {
	cfg := config.Load()
	logger.Init()

	ledger := security.NewLedger(cfg.LedgerTTL)
	classifier := security.NewClassifier(ledger)
	limiter := ratelimit.New(nil)
	sessions := session.NewStore(cfg.SessionTTL)
	cookies := session.NewCookieManager(cfg.SessionSecret)
	llm := groq.NewClient()

	stop := make(chan struct{})
	ledger.StartSweeper(5*time.Minute, stop)
	sessions.StartJanitor(5*time.Minute, stop)
	limiter.StartJanitor(10*time.Minute, 3*time.Hour, stop)

	logger.Banner(cfg.Port, cfg.Model)

	server := gateway.NewServer(cfg, ledger, sessions, cookies, llm)
	handler := gateway.NewRouter(server, classifier, limiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		pprofAddr := "localhost:6060"
		logger.Info("pprof server listening on http://%s/debug/pprof/", pprofAddr)
		if err := http.ListenAndServe(pprofAddr, nil); err != nil {
			logger.Error("pprof server error: %v", err)
		}
	}()

	logger.Info("Server listening on %s", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down server...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}
	logger.Info("Server stopped")
}
