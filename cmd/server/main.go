package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"examtrainer"
	"examtrainer/store"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg := examtrainer.DefaultConfig()
	if *configPath != "" {
		loaded, err := examtrainer.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.FromEnv()
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	pipeline, err := examtrainer.New(cfg)
	if err != nil {
		slog.Error("creating pipeline", "error", err)
		os.Exit(1)
	}

	attempts, err := store.OpenAttempts(cfg.ResolveAttemptsDBPath())
	if err != nil {
		slog.Error("opening attempt history", "error", err)
		os.Exit(1)
	}
	defer attempts.Close()

	corsOrigins := os.Getenv("EXAMTRAINER_CORS_ORIGINS")

	tokens := newTokenStore(cfg.Password != "")
	h := newHandler(cfg, pipeline, attempts, tokens)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = newMux(h)
	handler = logMiddleware(handler)
	handler = authMiddleware(tokens, handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // uploads and exports can be slow
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting",
			"addr", cfg.ListenAddr,
			"data_dir", cfg.DataDir,
			"auth", cfg.Password != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// newMux builds the route table.
func newMux(h *handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("GET /exams", h.handleListExams)
	mux.HandleFunc("POST /exams", h.handleCreateExam)
	mux.HandleFunc("GET /exams/{exam}", h.handleGetExam)
	mux.HandleFunc("DELETE /exams/{exam}", h.handleDeleteExam)
	mux.HandleFunc("GET /exams/{exam}/stats", h.handleExamStats)
	mux.HandleFunc("PUT /exams/{exam}/questions/{id}", h.handleUpdateQuestion)
	mux.HandleFunc("GET /exams/{exam}/images/{name}", h.handleImage)

	mux.HandleFunc("POST /exams/{exam}/quiz", h.handleStartQuiz)
	mux.HandleFunc("GET /quiz/{token}", h.handleGetQuiz)
	mux.HandleFunc("PUT /quiz/{token}/answers", h.handleSaveAnswers)
	mux.HandleFunc("POST /quiz/{token}/submit", h.handleSubmitQuiz)

	mux.HandleFunc("GET /exams/{exam}/attempts", h.handleListAttempts)
	mux.HandleFunc("GET /attempts/{id}", h.handleGetAttempt)
	mux.HandleFunc("DELETE /attempts/{id}", h.handleDeleteAttempt)

	mux.HandleFunc("GET /exams/{exam}/export/questions.csv", h.handleExportQuestionsCSV)
	mux.HandleFunc("GET /exams/{exam}/export/questions.xlsx", h.handleExportQuestionsXLSX)
	mux.HandleFunc("GET /exams/{exam}/export/attempts.csv", h.handleExportAttemptsCSV)

	return mux
}
