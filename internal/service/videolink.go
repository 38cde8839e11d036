package service

import (
	"context"
	"log/slog"

	"github.com/linkdesk/videolink/internal/auth"
	"github.com/linkdesk/videolink/internal/domain"
	"github.com/linkdesk/videolink/internal/repository"
)

// VideoLinkService reads and mutates the single video link.
type VideoLinkService struct {
	db            repository.DBTX
	tx            repository.TxRunner
	links         repository.VideoLinkRepository
	outbox        repository.OutboxRepository
	credentials   *CredentialService
	policy        auth.Policy
	publishEvents bool
	logger        *slog.Logger
}

// VideoLinkConfig holds the VideoLinkService settings.
type VideoLinkConfig struct {
	Policy auth.Policy
	// PublishEvents writes an outbox event in the same transaction as each mutation.
	PublishEvents bool
}

// NewVideoLinkService creates a new VideoLinkService.
func NewVideoLinkService(
	db repository.DBTX,
	tx repository.TxRunner,
	links repository.VideoLinkRepository,
	outbox repository.OutboxRepository,
	credentials *CredentialService,
	cfg VideoLinkConfig,
	logger *slog.Logger,
) *VideoLinkService {
	policy := cfg.Policy
	if policy == "" {
		policy = auth.PolicyAnyAdmin
	}
	return &VideoLinkService{
		db:            db,
		tx:            tx,
		links:         links,
		outbox:        outbox,
		credentials:   credentials,
		policy:        policy,
		publishEvents: cfg.PublishEvents,
		logger:        logger,
	}
}

// Get returns the current link and whether one is stored.
func (s *VideoLinkService) Get(ctx context.Context) (string, bool, error) {
	v, err := s.links.Get(ctx, s.db)
	if err != nil {
		return "", false, domain.ErrInternal("fetch video link", err)
	}
	if v == nil {
		return "", false, nil
	}
	return v.Link, true, nil
}

// Credentials identify the admin performing a mutation.
type Credentials struct {
	Username string
	Password string
}

// Set verifies the caller and replaces the link, creating the row if needed.
func (s *VideoLinkService) Set(ctx context.Context, creds Credentials, link string) error {
	if err := domain.ValidateVideoLink(link); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := s.authorize(ctx, creds); err != nil {
		return err
	}

	err := s.tx.InTx(ctx, func(tx repository.DBTX) error {
		if err := s.links.Upsert(ctx, tx, link); err != nil {
			return err
		}
		if s.publishEvents {
			return s.outbox.Insert(ctx, tx, domain.NewVideoLinkUpdatedEvent(link))
		}
		return nil
	})
	if err != nil {
		return domain.ErrInternal("update video link", err)
	}

	s.logger.Info("video link updated", "admin", creds.Username)
	return nil
}

// Clear verifies the caller and removes the link. Clearing an absent link is not an error.
func (s *VideoLinkService) Clear(ctx context.Context, creds Credentials) error {
	if err := s.authorize(ctx, creds); err != nil {
		return err
	}

	var removed bool
	err := s.tx.InTx(ctx, func(tx repository.DBTX) error {
		var err error
		removed, err = s.links.Delete(ctx, tx)
		if err != nil {
			return err
		}
		if removed && s.publishEvents {
			return s.outbox.Insert(ctx, tx, domain.NewVideoLinkClearedEvent())
		}
		return nil
	})
	if err != nil {
		return domain.ErrInternal("delete video link", err)
	}

	s.logger.Info("video link cleared", "admin", creds.Username, "removed", removed)
	return nil
}

func (s *VideoLinkService) authorize(ctx context.Context, creds Credentials) error {
	account, err := s.credentials.Verify(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}
	if !s.policy.AllowsVideoLinkMutation(account) {
		// Same answer as an unknown user: a secondary admin's valid password proves nothing here.
		return domain.ErrAdminNotFound(MsgAdminNotFound)
	}
	return nil
}
