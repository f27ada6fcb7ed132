package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-attendance/internal/domain"
	identityerrors "go-attendance/internal/identity/errors"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

//go:generate mockgen -source=identity_service.go -destination=mock/identity_service_mock.go -package=mock
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error)
	VerifyAccessToken(token string) (domain.Caller, error)
	// DeleteAccount returns ErrAccountNotFound when uid has no account.
	DeleteAccount(ctx context.Context, uid string) error
}

type service struct {
	repo   Repository
	cfg    TokenConfig
	logger *zap.Logger
}

func NewService(repo Repository, cfg TokenConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("identity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.service")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &service{repo: repo, cfg: cfg, logger: l}
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (AuthResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("hash password failed", zap.Error(err))
		return AuthResponse{}, err
	}

	account := &Account{
		UID:          uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hashed),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if database.IsUniqueViolation(err, EmailConstraint) {
			return AuthResponse{}, identityerrors.ErrEmailAlreadyRegistered
		}
		l.Error("create identity account failed", zap.Error(err))
		return AuthResponse{}, err
	}

	l.Info("identity account created", zap.String("uid", account.UID))
	return s.issue(account)
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return AuthResponse{}, identityerrors.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return AuthResponse{}, identityerrors.ErrInvalidCredentials
	}

	return s.issue(account)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return AuthResponse{}, err
	}

	account, err := s.repo.GetByUID(ctx, claims.UID)
	if err != nil {
		if database.IsNotFound(err) {
			// Deleted accounts cannot mint new tokens.
			return AuthResponse{}, identityerrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}

	return s.issue(account)
}

func (s *service) VerifyAccessToken(token string) (domain.Caller, error) {
	return s.parse(token, tokenTypeAccess)
}

func (s *service) DeleteAccount(ctx context.Context, uid string) error {
	deleted, err := s.repo.Delete(ctx, uid)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("delete identity account failed",
			zap.String("uid", uid),
			zap.Error(err),
		)
		return err
	}
	if !deleted {
		return identityerrors.ErrAccountNotFound
	}
	return nil
}

func (s *service) issue(account *Account) (AuthResponse, error) {
	access, err := s.generateToken(account, tokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return AuthResponse{}, identityerrors.ErrTokenGenerationFailed
	}
	refresh, err := s.generateToken(account, tokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return AuthResponse{}, identityerrors.ErrTokenGenerationFailed
	}

	return AuthResponse{
		Account: AccountResponse{
			UID:   account.UID,
			Email: account.Email,
			Name:  account.Name,
		},
		TokenPair: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	}, nil
}

func (s *service) generateToken(account *Account, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    account.UID,
		"email":      account.Email,
		"name":       account.Name,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *service) parse(tokenString, wantType string) (domain.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, identityerrors.ErrInvalidToken
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, identityerrors.ErrTokenExpired
		}
		return domain.Caller{}, identityerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Caller{}, identityerrors.ErrInvalidToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != wantType {
		return domain.Caller{}, identityerrors.ErrInvalidToken
	}

	uid, _ := claims["user_id"].(string)
	if uid == "" {
		return domain.Caller{}, identityerrors.ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return domain.Caller{UID: uid, Email: email, Name: name}, nil
}
