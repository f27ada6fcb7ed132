package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-attendance/internal/company"
	"go-attendance/internal/domain"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"
	usererrors "go-attendance/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SessionKeyPrefix      = "session:"
	DefaultSessionTTL     = 5 * time.Minute
	memberTimestampLayout = time.RFC3339
)

func SessionKey(uid string) string {
	return SessionKeyPrefix + uid
}

type CompanyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error)
}

type Authorizer interface {
	Authorize(role domain.Role, resource, action string) error
	Permissions(role domain.Role) ([]string, error)
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetSession(ctx context.Context, caller domain.Caller) (SessionResponse, error)
	ListMembers(ctx context.Context, caller domain.Caller) ([]MemberResponse, error)
	RoleOf(ctx context.Context, uid string) (domain.Role, error)
	// Invalidate drops cached sessions. Failures are logged, never returned.
	Invalidate(ctx context.Context, uids ...string)
}

type service struct {
	repo      Repository
	companies CompanyReader
	authz     Authorizer
	rdb       *redis.Client
	ttl       time.Duration
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	repo Repository,
	companies CompanyReader,
	authz Authorizer,
	rdb *redis.Client,
	ttl time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &service{
		repo:      repo,
		companies: companies,
		authz:     authz,
		rdb:       rdb,
		ttl:       ttl,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) GetSession(ctx context.Context, caller domain.Caller) (SessionResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	cacheKey := SessionKey(caller.UID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp SessionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			l.Warn("session cache read failed", zap.String("uid", caller.UID), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.loadSession(ctx, caller)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, string(jsonData), s.ttl).Err(); err != nil {
					l.Warn("session cache write failed", zap.String("uid", caller.UID), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return SessionResponse{}, err
	}

	return v.(SessionResponse), nil
}

func (s *service) loadSession(ctx context.Context, caller domain.Caller) (SessionResponse, error) {
	resp := SessionResponse{
		UID:         caller.UID,
		Email:       caller.Email,
		UserName:    caller.Name,
		Permissions: []string{},
	}

	u, err := s.repo.FindByUID(ctx, caller.UID)
	if err != nil {
		if database.IsNotFound(err) {
			resp.IsNewUser = true
			return resp, nil
		}
		s.logger.Error("load session user failed", zap.String("uid", caller.UID), zap.Error(err))
		return SessionResponse{}, err
	}

	if u.UserName != "" {
		resp.UserName = u.UserName
	}
	if u.Email != "" {
		resp.Email = u.Email
	}
	resp.Role = string(u.Role)

	perms, err := s.authz.Permissions(u.Role)
	if err != nil {
		return SessionResponse{}, err
	}
	resp.Permissions = perms

	if !u.HasCompany() {
		return resp, nil
	}

	resp.CompanyID = u.CompanyID.String()
	comp, err := s.companies.GetByID(ctx, *u.CompanyID)
	if err != nil {
		if database.IsNotFound(err) {
			// Company removed underneath the profile; render as company-less.
			s.logger.Warn("session company missing",
				zap.String("uid", caller.UID),
				zap.String("company_id", resp.CompanyID),
			)
			return resp, nil
		}
		return SessionResponse{}, err
	}

	resp.CompanyName = comp.Name
	if u.IsAdmin() {
		resp.InviteCode = comp.InviteCode
	}
	return resp, nil
}

func (s *service) ListMembers(ctx context.Context, caller domain.Caller) ([]MemberResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.repo.FindByUID(ctx, caller.UID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.authz.Authorize(u.Role, domain.ResourceMember, domain.ActionRead); err != nil {
		return nil, err
	}
	if !u.HasCompany() {
		return nil, usererrors.ErrNoCompany
	}

	users, err := s.repo.ListByCompany(ctx, *u.CompanyID)
	if err != nil {
		l.Error("list members failed", zap.String("company_id", u.CompanyID.String()), zap.Error(err))
		return nil, err
	}

	resp := make([]MemberResponse, len(users))
	for i, m := range users {
		resp[i] = mapToMemberResponse(m)
	}
	return resp, nil
}

func (s *service) RoleOf(ctx context.Context, uid string) (domain.Role, error) {
	u, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		return "", mapRepositoryError(err)
	}
	return u.Role, nil
}

func (s *service) Invalidate(ctx context.Context, uids ...string) {
	if s.rdb == nil || len(uids) == 0 {
		return
	}

	keys := make([]string, len(uids))
	for i, uid := range uids {
		keys[i] = SessionKey(uid)
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("session cache invalidate failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

func mapToMemberResponse(u User) MemberResponse {
	return MemberResponse{
		UID:       u.UID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      string(u.Role),
		UpdatedAt: u.UpdatedAt.UTC().Format(memberTimestampLayout),
	}
}
