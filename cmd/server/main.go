package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/feedtrack/feedtrack/internal/config"
	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/domain/project"
	"github.com/feedtrack/feedtrack/internal/files"
	"github.com/feedtrack/feedtrack/internal/realtime"
	"github.com/feedtrack/feedtrack/internal/repository"
	"github.com/feedtrack/feedtrack/internal/sqlite"
	"github.com/feedtrack/feedtrack/internal/transport"
)

func main() {
	grantDeveloper := flag.String("grant-developer", "", "add the account with this email to the developers group, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	feedbackRepo := sqlite.NewFeedbackRepository(db)
	fileRepo := sqlite.NewFileRepository(db)

	if *grantDeveloper != "" {
		if err := grantDeveloperRole(userRepo, membershipRepo, cfg.Session.DeveloperGroup, *grantDeveloper); err != nil {
			logger.Error("failed to grant developer role", "email", *grantDeveloper, "error", err)
			os.Exit(1)
		}
		logger.Info("developer role granted", "email", *grantDeveloper)
		return
	}

	fileStore, err := files.NewStore(cfg.Files.Dir, fileRepo, logger)
	if err != nil {
		logger.Error("failed to prepare file store", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(logger)

	identitySvc := identity.NewService(
		userRepo,
		sessionRepo,
		membershipRepo,
		cfg.Session.DeveloperGroup,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
		logger,
	)
	projectSvc := project.NewService(projectRepo, logger)
	feedbackSvc := feedback.NewService(feedbackRepo, realtime.NewFeedPublisher(hub), logger)

	handlers := transport.NewHandlers(identitySvc, feedbackSvc, projectSvc, fileStore, logger)
	stream := transport.NewEventStream(hub, logger)
	router := transport.NewRouter(identitySvc, handlers, stream)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go sessionJanitor(janitorCtx, sessionRepo, logger)

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// sessionJanitor removes expired sessions on an hourly cadence so the
// sessions table does not grow without bound.
func sessionJanitor(ctx context.Context, sessions repository.SessionRepository, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Error("session cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions removed", "count", removed)
			}
		}
	}
}

func grantDeveloperRole(users repository.UserRepository, memberships repository.MembershipRepository, group, email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", email, err)
	}
	return memberships.AddGroupMember(ctx, group, user.ID)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
