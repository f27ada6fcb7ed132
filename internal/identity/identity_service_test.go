package identity_test

import (
	"context"
	"testing"
	"time"

	"go-attendance/internal/identity"
	identityerrors "go-attendance/internal/identity/errors"
	identityMock "go-attendance/internal/identity/mock"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testTokens = identity.TokenConfig{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour}

func TestService_SignUpAndVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := identityMock.NewMockRepository(ctrl)
	svc := identity.NewService(mockRepo, testTokens)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, a *identity.Account) error {
			assert.Equal(t, "alice@example.com", a.Email)
			assert.NotEmpty(t, a.UID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("password123")))
			return nil
		})

		res, err := svc.SignUp(ctx, identity.SignUpRequest{Email: " Alice@Example.com ", Name: "Alice", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)

		caller, err := svc.VerifyAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, res.Account.UID, caller.UID)
		assert.Equal(t, "Alice", caller.Name)
		assert.Equal(t, "alice@example.com", caller.Email)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mockRepo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: identity.EmailConstraint})

		_, err := svc.SignUp(ctx, identity.SignUpRequest{Email: "alice@example.com", Name: "Alice", Password: "password123"})
		assert.ErrorIs(t, err, identityerrors.ErrEmailAlreadyRegistered)
	})
}

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := identityMock.NewMockRepository(ctrl)
	svc := identity.NewService(mockRepo, testTokens)
	ctx := context.Background()

	pw, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	account := &identity.Account{UID: "uid-1", Email: "alice@example.com", Name: "Alice", PasswordHash: string(pw)}

	t.Run("Success", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(ctx, account.Email).Return(account, nil)

		res, err := svc.Login(ctx, account.Email, "password123")
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", res.Account.UID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(ctx, account.Email).Return(account, nil)

		_, err := svc.Login(ctx, account.Email, "wrongpass")
		assert.ErrorIs(t, err, identityerrors.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, identityerrors.ErrInvalidCredentials)
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := identityMock.NewMockRepository(ctrl)
	svc := identity.NewService(mockRepo, testTokens)
	ctx := context.Background()

	pw, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	account := &identity.Account{UID: "uid-1", Email: "alice@example.com", Name: "Alice", PasswordHash: string(pw)}
	mockRepo.EXPECT().GetByEmail(ctx, account.Email).Return(account, nil)
	login, err := svc.Login(ctx, account.Email, "password123")
	require.NoError(t, err)

	t.Run("Refresh token mints a new pair", func(t *testing.T) {
		mockRepo.EXPECT().GetByUID(ctx, "uid-1").Return(account, nil)

		res, err := svc.RefreshToken(ctx, login.RefreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
	})

	t.Run("Access token is not a refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, login.AccessToken)
		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("Refresh token is not an access token", func(t *testing.T) {
		_, err := svc.VerifyAccessToken(login.RefreshToken)
		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("Deleted account cannot refresh", func(t *testing.T) {
		mockRepo.EXPECT().GetByUID(ctx, "uid-1").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.RefreshToken(ctx, login.RefreshToken)
		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other := identity.NewService(mockRepo, identity.TokenConfig{Secret: "other"})
		_, err := other.VerifyAccessToken(login.AccessToken)
		assert.ErrorIs(t, err, identityerrors.ErrInvalidToken)
	})
}

func TestService_VerifyAccessToken_Expired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := identityMock.NewMockRepository(ctrl)
	svc := identity.NewService(mockRepo, identity.TokenConfig{Secret: "s", AccessTTL: -time.Minute, RefreshTTL: time.Hour})

	pw, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").
		Return(&identity.Account{UID: "uid-1", Email: "a@example.com", PasswordHash: string(pw)}, nil)

	res, err := svc.Login(context.Background(), "a@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(res.AccessToken)
	assert.ErrorIs(t, err, identityerrors.ErrTokenExpired)
}

func TestService_DeleteAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := identityMock.NewMockRepository(ctrl)
	svc := identity.NewService(mockRepo, testTokens)
	ctx := context.Background()

	mockRepo.EXPECT().Delete(ctx, "uid-1").Return(true, nil)
	assert.NoError(t, svc.DeleteAccount(ctx, "uid-1"))

	mockRepo.EXPECT().Delete(ctx, "uid-1").Return(false, nil)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, "uid-1"), identityerrors.ErrAccountNotFound)
}
