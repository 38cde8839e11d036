package app

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkdesk/videolink/internal/auth"
	"github.com/linkdesk/videolink/internal/handler"
	"github.com/linkdesk/videolink/internal/repository"
	"github.com/linkdesk/videolink/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	// Hasher defaults to bcrypt cost 10 when nil.
	Hasher *auth.PasswordHasher
	// Policy defaults to auth.PolicyAnyAdmin when empty.
	Policy             auth.Policy
	PublishEvents      bool
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	logger := deps.Logger

	credentialSvc := newCredentialService(pool, deps.Hasher, logger)
	videoLinkSvc := service.NewVideoLinkService(
		pool,
		repository.NewPgTxRunner(pool),
		repository.NewPgVideoLinkRepository(),
		repository.NewOutboxRepository(),
		credentialSvc,
		service.VideoLinkConfig{Policy: deps.Policy, PublishEvents: deps.PublishEvents},
		logger,
	)

	// Handlers
	videoLinkHandler := handler.NewVideoLinkHandler(videoLinkSvc, logger)
	adminHandler := handler.NewAdminHandler(credentialSvc, logger)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	r.Get("/health", handler.HealthHandler(pool, logger))

	r.Get("/video-link", videoLinkHandler.Get)
	r.Post("/video-link", videoLinkHandler.Update)
	r.Delete("/video-link", videoLinkHandler.Delete)

	r.Post("/login", adminHandler.Login)
	r.Post("/add-admin", adminHandler.AddAdmin)

	return r
}

// BootstrapMainAdmin ensures the main admin account exists.
func BootstrapMainAdmin(ctx context.Context, pool *pgxpool.Pool, hasher *auth.PasswordHasher, password string, logger *slog.Logger) error {
	return newCredentialService(pool, hasher, logger).BootstrapMainAdmin(ctx, password)
}

func newCredentialService(pool *pgxpool.Pool, hasher *auth.PasswordHasher, logger *slog.Logger) *service.CredentialService {
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultCost)
	}
	return service.NewCredentialService(pool, repository.NewPgAdminRepository(), hasher, logger)
}
