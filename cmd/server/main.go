package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"

	"cineverse-chat/auth"
	"cineverse-chat/domain"
	"cineverse-chat/infrastructure/server"
	"cineverse-chat/internal"
	"cineverse-chat/moderation"
	"cineverse-chat/projection"
	"cineverse-chat/repositories"
	"cineverse-chat/runtime"
	"cineverse-chat/runtime/workers"
	"cineverse-chat/services"
)

// Exit codes to provide meaningful status to the operating system or service
// manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat engine terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. All defers (database close, pool drain) are
// guaranteed to execute before the process exits.
func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	options := buildBadgerOpts(config, logger, ctx)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Release the lock and flush buffers before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		debugPort := 8081
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", debugPort, endpoint))
		database.StartDebugServer(db, debugPort, endpoint, chatMapper)
	}

	// 3. Moderation (embedded wordlists + Aho-Corasick automaton)
	loader := runtime.NewCensoredLoader()
	censored, err := loader.LoadAll("censored")
	if err != nil {
		return exitRuntime, err
	}
	logger.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(censored.Languages), strings.Join(censored.Languages, ",")))
	logger.Info(fmt.Sprintf("%d unique censored words loaded", len(censored.Words)))

	moderator, err := moderation.NewModerator(censored.Words, charReplacement, logger)
	if err != nil {
		return exitRuntime, err
	}

	// 4. Engine wiring
	userRepository := repositories.NewUserRepository(db)
	conversationRepository := repositories.NewConversationRepository(db, logger)
	messageRepository := repositories.NewMessageRepository(db, logger)

	presence := runtime.NewPresence()
	timeline := projection.NewTimeline(config.ReplayWindow)
	hub := server.NewHub(logger, timeline)

	pool := workers.NewPersistencePool(logger, config.NumberOfWorkers, config.QueueSize)
	pool.Start(ctx)

	dispatcher := runtime.NewDispatcher(logger, userRepository,
		conversationRepository, messageRepository, hub, pool, &moderator)

	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)
	conversationService := services.NewConversationService(logger, userRepository,
		conversationRepository, messageRepository, hub)
	authService := services.NewAuthService(userRepository, tokens)

	// 5. Supervision: the hub loop and the telemetry reporter
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(hub)
	sup.Add(workers.NewTelemetryWorker(logger, config.MetricInterval,
		presence.Count, pool.QueueDepth))

	// 6. Context & signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 7. HTTP server (REST query surface + WebSocket channel)
	chatHandler := server.NewChatHandler(logger, dispatcher, conversationService, presence)
	authHandler := server.NewAuthHandler(logger, authService)
	wsHandler := server.NewWSHandler(logger, hub, presence, tokens, config.ConnectionBufferSize)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", config.Port),
		Handler: server.NewRouter(chatHandler, authHandler, wsHandler),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for stop or error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 9. Graceful shutdown: refuse new requests, stop the hub, then give the
	// persistence pool its grace window so acknowledged messages reach disk.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	sup.Stop()
	<-supDone
	pool.Shutdown(config.ShutdownGrace)
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}
	return options
}

// chatMapper renders message entries in the debug inspector; other keyspaces
// fall back to the raw view.
func chatMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if !strings.HasPrefix(key, "msg:") {
		return row
	}

	var m domain.ChatMessage
	if err := json.Unmarshal(val, &m); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = string(m.Type)
	row.Detail = fmt.Sprintf("%s: %s", m.SenderName, m.Body)
	return row
}
