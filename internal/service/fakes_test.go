package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/linkdesk/videolink/internal/auth"
	"github.com/linkdesk/videolink/internal/domain"
	"github.com/linkdesk/videolink/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// fakeAdminRepo is an in-memory AdminRepository keyed by exact username.
type fakeAdminRepo struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]*domain.AdminAccount
	findErr error
	lookups int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byName: make(map[string]*domain.AdminAccount)}
}

func (r *fakeAdminRepo) FindByUsername(_ context.Context, _ repository.DBTX, username string) (*domain.AdminAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byName[username]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) Create(_ context.Context, _ repository.DBTX, username, hash string) (*domain.AdminAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; ok {
		return nil, repository.ErrDuplicateUsername
	}
	return r.insert(username, hash), nil
}

func (r *fakeAdminRepo) CreateIfAbsent(_ context.Context, _ repository.DBTX, username, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; ok {
		return false, nil
	}
	r.insert(username, hash)
	return true, nil
}

func (r *fakeAdminRepo) insert(username, hash string) *domain.AdminAccount {
	r.nextID++
	a := &domain.AdminAccount{ID: r.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	r.byName[username] = a
	cp := *a
	return &cp
}

func (r *fakeAdminRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}

// fakeVideoLinkRepo holds at most one link, like the video_link table.
type fakeVideoLinkRepo struct {
	mu        sync.Mutex
	link      *domain.VideoLink
	getErr    error
	upsertErr error
	writes    int
}

func (r *fakeVideoLinkRepo) Get(_ context.Context, _ repository.DBTX) (*domain.VideoLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.link == nil {
		return nil, nil
	}
	cp := *r.link
	return &cp, nil
}

func (r *fakeVideoLinkRepo) Upsert(_ context.Context, _ repository.DBTX, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.writes++
	r.link = &domain.VideoLink{Link: link, UpdatedAt: time.Now()}
	return nil
}

func (r *fakeVideoLinkRepo) Delete(_ context.Context, _ repository.DBTX) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	existed := r.link != nil
	r.link = nil
	return existed, nil
}

type fakeOutboxRepo struct {
	mu        sync.Mutex
	events    []domain.OutboxDraft
	insertErr error
}

func (r *fakeOutboxRepo) Insert(_ context.Context, _ repository.DBTX, draft domain.OutboxDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.events = append(r.events, draft)
	return nil
}

func (r *fakeOutboxRepo) FetchUnpublished(_ context.Context, _ repository.DBTX, limit int) ([]domain.OutboxRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []domain.OutboxRow
	for i, e := range r.events {
		if i >= limit {
			break
		}
		rows = append(rows, domain.OutboxRow{SeqID: int64(i + 1), OutboxDraft: e})
	}
	return rows, nil
}

func (r *fakeOutboxRepo) MarkPublished(context.Context, repository.DBTX, []int64) error {
	return nil
}

// fakeTxRunner runs fn directly; it does not undo the writes of a failed fn.
type fakeTxRunner struct {
	mu    sync.Mutex
	calls int
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(tx repository.DBTX) error) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return fn(nil)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

// seedAdmin stores an account with a real bcrypt hash of password.
func seedAdmin(repo *fakeAdminRepo, username, password string) {
	hash, err := testHasher().Hash(password)
	if err != nil {
		panic(err)
	}
	repo.insert(username, hash)
}
