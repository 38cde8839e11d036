package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/linkdesk/videolink/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredentialService(repo *fakeAdminRepo) *CredentialService {
	return NewCredentialService(nil, repo, testHasher(), noopLogger())
}

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

// --- Verify ---

func TestVerify_CorrectPassword(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	for _, tc := range []struct{ user, pw string }{{"mainadmin", "root-pw"}, {"editor", "editor-pw"}} {
		account, err := svc.Verify(context.Background(), tc.user, tc.pw)
		require.NoError(t, err)
		assert.Equal(t, tc.user, account.Username)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	for _, wrong := range []string{"editor-pw ", "EDITOR-PW", "root-pw", "x"} {
		account, err := svc.Verify(context.Background(), "editor", wrong)
		assert.Nil(t, account)
		assertAppError(t, err, domain.CodeIncorrectPassword, MsgIncorrectPassword)
	}
}

func TestVerify_ExtraBytesPastBcryptLimitRejected(t *testing.T) {
	repo := newFakeAdminRepo()
	stored := strings.Repeat("p", domain.MaxPasswordBytes)
	seedAdmin(repo, "editor", stored)
	svc := newTestCredentialService(repo)

	account, err := svc.Verify(context.Background(), "editor", stored)
	require.NoError(t, err)
	assert.Equal(t, "editor", account.Username)

	account, err = svc.Verify(context.Background(), "editor", stored+"EXTRA")
	assert.Nil(t, account)
	assertAppError(t, err, domain.CodeIncorrectPassword, MsgIncorrectPassword)
}

func TestVerify_UnknownUser(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	tests := []string{"ghost", "Editor", "editor ", ""}
	for _, username := range tests {
		t.Run(username, func(t *testing.T) {
			var account *domain.AdminAccount
			var err error
			assert.NotPanics(t, func() {
				account, err = svc.Verify(context.Background(), username, "editor-pw")
			})
			assert.Nil(t, account)
			assertAppError(t, err, domain.CodeAdminNotFound, MsgAdminNotFound)
		})
	}
}

func TestVerify_UnstorableUsernameSkipsLookup(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := newTestCredentialService(repo)

	_, err := svc.Verify(context.Background(), "edi\x00tor", "pw")
	assertAppError(t, err, domain.CodeAdminNotFound, "")

	_, err = svc.Verify(context.Background(), "edi\xfftor", "pw")
	assertAppError(t, err, domain.CodeAdminNotFound, "")

	assert.Equal(t, 0, repo.lookups)
}

func TestVerify_EmptyPasswordRejected(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	_, err := svc.Verify(context.Background(), "editor", "")
	assertAppError(t, err, domain.CodeIncorrectPassword, MsgIncorrectPassword)
}

func TestVerify_CorruptHashFailsClosed(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.insert("editor", "plaintext-not-a-hash")
	svc := newTestCredentialService(repo)

	_, err := svc.Verify(context.Background(), "editor", "plaintext-not-a-hash")
	assertAppError(t, err, domain.CodeIncorrectPassword, "")
}

func TestVerify_StorageError(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.findErr = errors.New("connection refused")
	svc := newTestCredentialService(repo)

	_, err := svc.Verify(context.Background(), "editor", "pw")
	assertAppError(t, err, domain.CodeInternal, "")
	assert.ErrorContains(t, err, "connection refused")
}

// --- Login ---

func TestLogin(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)
	ctx := context.Background()

	account, err := svc.Login(ctx, "mainadmin", "root-pw")
	require.NoError(t, err)
	assert.True(t, account.IsMainAdmin())

	_, err = svc.Login(ctx, "mainadmin", "nope")
	assertAppError(t, err, domain.CodeIncorrectPassword, MsgIncorrectPassword)

	_, err = svc.Login(ctx, "editor", "editor-pw")
	assertAppError(t, err, domain.CodeAdminNotFound, MsgInvalidUsername)

	_, err = svc.Login(ctx, "MAINADMIN", "root-pw")
	assertAppError(t, err, domain.CodeAdminNotFound, MsgInvalidUsername)
}

func TestLogin_MainAdminMissing(t *testing.T) {
	svc := newTestCredentialService(newFakeAdminRepo())

	_, err := svc.Login(context.Background(), "mainadmin", "root-pw")
	assertAppError(t, err, domain.CodeAdminNotFound, MsgInvalidUsername)
}

// --- AddAdmin ---

func TestAddAdmin_Success(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	svc := newTestCredentialService(repo)
	ctx := context.Background()

	account, err := svc.AddAdmin(ctx, AddAdminInput{MainAdminPassword: "root-pw", Username: "editor", Password: "editor-pw"})
	require.NoError(t, err)
	assert.Equal(t, "editor", account.Username)
	assert.NotEqual(t, "editor-pw", account.PasswordHash)

	verified, err := svc.Verify(ctx, "editor", "editor-pw")
	require.NoError(t, err)
	assert.False(t, verified.IsMainAdmin())
}

func TestAddAdmin_WrongMainAdminPassword(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	svc := newTestCredentialService(repo)

	_, err := svc.AddAdmin(context.Background(), AddAdminInput{MainAdminPassword: "wrong", Username: "editor", Password: "editor-pw"})
	assertAppError(t, err, domain.CodeIncorrectPassword, MsgIncorrectMainAdminPassword)
	assert.Equal(t, 1, repo.count(), "no row inserted")
}

func TestAddAdmin_MainAdminMissing(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	_, err := svc.AddAdmin(context.Background(), AddAdminInput{MainAdminPassword: "editor-pw", Username: "other", Password: "pw"})
	assertAppError(t, err, domain.CodeAdminNotFound, MsgMainAdminNotFound)
	assert.Equal(t, 1, repo.count())
}

func TestAddAdmin_SecondaryCredentialsDoNotAuthorize(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	// The secondary admin's own password is checked against the main admin record.
	_, err := svc.AddAdmin(context.Background(), AddAdminInput{MainAdminPassword: "editor-pw", Username: "third", Password: "pw"})
	assertAppError(t, err, domain.CodeIncorrectPassword, MsgIncorrectMainAdminPassword)
	assert.Equal(t, 2, repo.count())
}

func TestAddAdmin_Duplicate(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	seedAdmin(repo, "editor", "editor-pw")
	svc := newTestCredentialService(repo)

	_, err := svc.AddAdmin(context.Background(), AddAdminInput{MainAdminPassword: "root-pw", Username: "editor", Password: "new-pw"})
	assertAppError(t, err, domain.CodeConflict, "")

	// The original password still works.
	_, err = svc.Verify(context.Background(), "editor", "editor-pw")
	assert.NoError(t, err)
}

func TestAddAdmin_CannotRecreateMainAdmin(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	svc := newTestCredentialService(repo)

	_, err := svc.AddAdmin(context.Background(), AddAdminInput{MainAdminPassword: "root-pw", Username: "mainadmin", Password: "hijack"})
	assertAppError(t, err, domain.CodeConflict, "")

	_, err = svc.Verify(context.Background(), "mainadmin", "root-pw")
	assert.NoError(t, err)
}

func TestAddAdmin_ValidatesInputBeforeAuth(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	svc := newTestCredentialService(repo)
	lookupsBefore := repo.lookups

	tests := []struct {
		name  string
		input AddAdminInput
	}{
		{"empty username", AddAdminInput{MainAdminPassword: "root-pw", Username: "", Password: "pw"}},
		{"empty password", AddAdminInput{MainAdminPassword: "root-pw", Username: "editor", Password: ""}},
		{"padded username", AddAdminInput{MainAdminPassword: "root-pw", Username: " editor", Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAdmin(context.Background(), tt.input)
			assertAppError(t, err, domain.CodeValidation, "")
		})
	}
	assert.Equal(t, lookupsBefore, repo.lookups)
	assert.Equal(t, 1, repo.count())
}

// --- BootstrapMainAdmin ---

func TestBootstrapMainAdmin_CreatesWhenAbsent(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := newTestCredentialService(repo)

	require.NoError(t, svc.BootstrapMainAdmin(context.Background(), "default-pw"))
	assert.Equal(t, 1, repo.count())

	account, err := svc.Verify(context.Background(), domain.MainAdminUsername, "default-pw")
	require.NoError(t, err)
	assert.True(t, account.IsMainAdmin())
}

func TestBootstrapMainAdmin_Idempotent(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := newTestCredentialService(repo)
	ctx := context.Background()

	require.NoError(t, svc.BootstrapMainAdmin(ctx, "first-pw"))
	require.NoError(t, svc.BootstrapMainAdmin(ctx, "second-pw"))

	assert.Equal(t, 1, repo.count())
	_, err := svc.Verify(ctx, domain.MainAdminUsername, "first-pw")
	assert.NoError(t, err, "password unchanged by the second call")
	_, err = svc.Verify(ctx, domain.MainAdminUsername, "second-pw")
	assertAppError(t, err, domain.CodeIncorrectPassword, "")
}

func TestBootstrapMainAdmin_Concurrent(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := newTestCredentialService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.BootstrapMainAdmin(context.Background(), "pw"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.count())
}

func TestBootstrapMainAdmin_EmptyPassword(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := newTestCredentialService(repo)

	err := svc.BootstrapMainAdmin(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 0, repo.count())
}

func TestBootstrapMainAdmin_EmptyPasswordIgnoredWhenPresent(t *testing.T) {
	repo := newFakeAdminRepo()
	seedAdmin(repo, "mainadmin", "root-pw")
	svc := newTestCredentialService(repo)

	assert.NoError(t, svc.BootstrapMainAdmin(context.Background(), ""))
}

func TestBootstrapMainAdmin_StorageError(t *testing.T) {
	repo := newFakeAdminRepo()
	repo.findErr = errors.New("db down")
	svc := newTestCredentialService(repo)

	err := svc.BootstrapMainAdmin(context.Background(), "pw")
	require.Error(t, err)
	assert.ErrorContains(t, err, "db down")
}
