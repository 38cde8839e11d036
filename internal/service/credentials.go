package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/linkdesk/videolink/internal/auth"
	"github.com/linkdesk/videolink/internal/domain"
	"github.com/linkdesk/videolink/internal/repository"
)

// Client-visible messages for failed credential checks.
const (
	MsgAdminNotFound              = "Admin not found"
	MsgIncorrectPassword          = "Incorrect password"
	MsgMainAdminNotFound          = "Main admin not found"
	MsgIncorrectMainAdminPassword = "Incorrect main admin password"
	MsgInvalidUsername            = "Invalid username"
)

// CredentialService verifies and creates admin accounts.
type CredentialService struct {
	db     repository.DBTX
	admins repository.AdminRepository
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(
	db repository.DBTX,
	admins repository.AdminRepository,
	hasher *auth.PasswordHasher,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		db:     db,
		admins: admins,
		hasher: hasher,
		logger: logger,
	}
}

// Verify checks username and password against the store and returns the account.
// It fails closed: absent accounts yield ErrAdminNotFound, empty or wrong passwords
// yield ErrIncorrectPassword, and storage failures yield ErrInternal.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (*domain.AdminAccount, error) {
	return s.verify(ctx, username, password, MsgAdminNotFound, MsgIncorrectPassword)
}

// VerifyMainAdmin checks password against the main admin account.
func (s *CredentialService) VerifyMainAdmin(ctx context.Context, password string) (*domain.AdminAccount, error) {
	return s.verify(ctx, domain.MainAdminUsername, password, MsgMainAdminNotFound, MsgIncorrectMainAdminPassword)
}

func (s *CredentialService) verify(ctx context.Context, username, password, notFoundMsg, mismatchMsg string) (*domain.AdminAccount, error) {
	// Such usernames can never have been stored, and Postgres rejects them in text parameters.
	if username == "" || strings.ContainsRune(username, 0) || !utf8.ValidString(username) {
		return nil, domain.ErrAdminNotFound(notFoundMsg)
	}

	account, err := s.admins.FindByUsername(ctx, s.db, username)
	if err != nil {
		return nil, domain.ErrInternal("find admin", err)
	}
	if account == nil {
		return nil, domain.ErrAdminNotFound(notFoundMsg)
	}

	if password == "" {
		return nil, domain.ErrIncorrectPassword(mismatchMsg)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			return nil, domain.ErrIncorrectPassword(mismatchMsg)
		}
		// A stored hash bcrypt cannot parse is a data problem, never a successful login.
		s.logger.Error("unusable password hash", "username", username, "error", err)
		return nil, domain.ErrIncorrectPassword(mismatchMsg)
	}

	return account, nil
}

// Login verifies main admin credentials. Secondary admins cannot log in, and
// are refused before their password is looked at.
func (s *CredentialService) Login(ctx context.Context, username, password string) (*domain.AdminAccount, error) {
	if username != domain.MainAdminUsername {
		return nil, domain.ErrAdminNotFound(MsgInvalidUsername)
	}
	return s.verify(ctx, username, password, MsgInvalidUsername, MsgIncorrectPassword)
}

// AddAdminInput holds the add-admin request fields.
type AddAdminInput struct {
	MainAdminPassword string
	Username          string
	Password          string
}

// AddAdmin creates a secondary admin after verifying the main admin's password.
func (s *CredentialService) AddAdmin(ctx context.Context, input AddAdminInput) (*domain.AdminAccount, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	mainAdmin, err := s.VerifyMainAdmin(ctx, input.MainAdminPassword)
	if err != nil {
		return nil, err
	}
	if !auth.AllowsAdminCreation(mainAdmin) {
		return nil, domain.ErrAdminNotFound(MsgMainAdminNotFound)
	}

	return s.CreateAccount(ctx, input.Username, input.Password)
}

// CreateAccount hashes password with a fresh salt and inserts a new admin.
// The store enforces username uniqueness; a duplicate yields ErrConflict.
func (s *CredentialService) CreateAccount(ctx context.Context, username, password string) (*domain.AdminAccount, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	account, err := s.admins.Create(ctx, s.db, username, hash)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, domain.ErrConflict("admin already exists")
	}
	if err != nil {
		return nil, domain.ErrInternal("create admin", err)
	}

	s.logger.Info("admin created", "username", username)
	return account, nil
}

// BootstrapMainAdmin creates the main admin with defaultPassword unless it already exists.
// Calling it any number of times leaves exactly one main admin with its original password.
func (s *CredentialService) BootstrapMainAdmin(ctx context.Context, defaultPassword string) error {
	existing, err := s.admins.FindByUsername(ctx, s.db, domain.MainAdminUsername)
	if err != nil {
		return fmt.Errorf("find main admin: %w", err)
	}
	if existing != nil {
		s.logger.Info("main admin already exists")
		return nil
	}

	if err := domain.ValidatePassword(defaultPassword); err != nil {
		return fmt.Errorf("main admin password: %w", err)
	}

	hash, err := s.hasher.Hash(defaultPassword)
	if err != nil {
		return err
	}

	created, err := s.admins.CreateIfAbsent(ctx, s.db, domain.MainAdminUsername, hash)
	if err != nil {
		return fmt.Errorf("create main admin: %w", err)
	}
	if created {
		s.logger.Info("main admin added")
	} else {
		s.logger.Info("main admin already exists")
	}
	return nil
}
