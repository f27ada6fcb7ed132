package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-attendance/internal/company"
	"go-attendance/internal/domain"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/user"
	usererrors "go-attendance/internal/user/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findByUIDFn      func(ctx context.Context, uid string) (*user.User, error)
	listByCompanyFn  func(ctx context.Context, companyID uuid.UUID) ([]user.User, error)
	findByUIDCalls   int
	listByCompanyHit int
}

func (f *fakeRepo) FindByUID(ctx context.Context, uid string) (*user.User, error) {
	f.findByUIDCalls++
	return f.findByUIDFn(ctx, uid)
}
func (f *fakeRepo) FindByUIDForUpdate(ctx context.Context, uid string) (*user.User, error) {
	return f.findByUIDFn(ctx, uid)
}
func (f *fakeRepo) Upsert(ctx context.Context, u *user.User, mergeColumns []string) error {
	return nil
}
func (f *fakeRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]user.User, error) {
	f.listByCompanyHit++
	return f.listByCompanyFn(ctx, companyID)
}
func (f *fakeRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) Delete(ctx context.Context, uid string) (bool, error) { return true, nil }
func (f *fakeRepo) WithTx(tx *gorm.DB) user.Repository                 { return f }

type fakeCompanies struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*company.Company, error)
}

func (f *fakeCompanies) GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	return f.getByIDFn(ctx, id)
}

type fakeAuthz struct{}

func (fakeAuthz) Authorize(role domain.Role, resource, action string) error {
	if role != domain.RoleAdmin {
		return apperror.ErrPermissionDenied
	}
	return nil
}

func (fakeAuthz) Permissions(role domain.Role) ([]string, error) {
	if role == domain.RoleAdmin {
		return []string{"attendance:create", "member:read"}, nil
	}
	return []string{"attendance:create"}, nil
}

func TestService_GetSession(t *testing.T) {
	ctx := context.Background()
	ttl := 5 * time.Minute
	companyID := uuid.New()
	caller := domain.Caller{UID: "uid-1", Email: "alice@example.com", Name: "token-name"}
	cacheKey := user.SessionKey(caller.UID)

	admin := &user.User{UID: "uid-1", UserName: "Alice", CompanyID: &companyID, Role: domain.RoleAdmin}
	comp := &company.Company{ID: companyID, Name: "Acme", InviteCode: "AB12CD"}

	t.Run("cache hit skips the store", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := &fakeRepo{}
		svc := user.NewService(repo, &fakeCompanies{}, fakeAuthz{}, rdb, ttl)

		cached, _ := json.Marshal(user.SessionResponse{UID: "uid-1", UserName: "Alice", Role: "admin"})
		mock.ExpectGet(cacheKey).SetVal(string(cached))

		resp, err := svc.GetSession(ctx, caller)

		assert.NoError(t, err)
		assert.Equal(t, "Alice", resp.UserName)
		assert.Equal(t, 0, repo.findByUIDCalls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss loads admin session and stores it", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		repo := &fakeRepo{findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) { return admin, nil }}
		companies := &fakeCompanies{getByIDFn: func(ctx context.Context, id uuid.UUID) (*company.Company, error) { return comp, nil }}
		svc := user.NewService(repo, companies, fakeAuthz{}, rdb, ttl)

		want := user.SessionResponse{
			UID:         "uid-1",
			Email:       "alice@example.com",
			UserName:    "Alice",
			Role:        "admin",
			CompanyID:   companyID.String(),
			CompanyName: "Acme",
			InviteCode:  "AB12CD",
			Permissions: []string{"attendance:create", "member:read"},
		}
		payload, _ := json.Marshal(want)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSet(cacheKey, string(payload), ttl).SetVal("OK")

		resp, err := svc.GetSession(ctx, caller)

		assert.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("members do not see the invite code", func(t *testing.T) {
		member := &user.User{UID: "uid-1", UserName: "Bob", CompanyID: &companyID, Role: domain.RoleUser}
		repo := &fakeRepo{findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) { return member, nil }}
		companies := &fakeCompanies{getByIDFn: func(ctx context.Context, id uuid.UUID) (*company.Company, error) { return comp, nil }}
		svc := user.NewService(repo, companies, fakeAuthz{}, nil, ttl)

		resp, err := svc.GetSession(ctx, caller)

		assert.NoError(t, err)
		assert.Equal(t, "Acme", resp.CompanyName)
		assert.Empty(t, resp.InviteCode)
	})

	t.Run("no record means new user", func(t *testing.T) {
		repo := &fakeRepo{findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) { return nil, gorm.ErrRecordNotFound }}
		svc := user.NewService(repo, &fakeCompanies{}, fakeAuthz{}, nil, ttl)

		resp, err := svc.GetSession(ctx, caller)

		assert.NoError(t, err)
		assert.True(t, resp.IsNewUser)
		assert.Equal(t, "token-name", resp.UserName)
		assert.Empty(t, resp.CompanyID)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		boom := errors.New("db down")
		repo := &fakeRepo{findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) { return nil, boom }}
		svc := user.NewService(repo, &fakeCompanies{}, fakeAuthz{}, nil, ttl)

		_, err := svc.GetSession(ctx, caller)

		assert.ErrorIs(t, err, boom)
	})
}

func TestService_ListMembers(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	caller := domain.Caller{UID: "uid-1"}

	t.Run("admin lists company members", func(t *testing.T) {
		repo := &fakeRepo{
			findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) {
				return &user.User{UID: uid, CompanyID: &companyID, Role: domain.RoleAdmin}, nil
			},
			listByCompanyFn: func(ctx context.Context, id uuid.UUID) ([]user.User, error) {
				assert.Equal(t, companyID, id)
				return []user.User{
					{UID: "uid-1", UserName: "Alice", Role: domain.RoleAdmin},
					{UID: "uid-2", UserName: "Bob", Role: domain.RoleUser},
				}, nil
			},
		}
		svc := user.NewService(repo, &fakeCompanies{}, fakeAuthz{}, nil, 0)

		members, err := svc.ListMembers(ctx, caller)

		assert.NoError(t, err)
		assert.Len(t, members, 2)
		assert.Equal(t, "Bob", members[1].UserName)
	})

	t.Run("non-admin is denied", func(t *testing.T) {
		repo := &fakeRepo{findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) {
			return &user.User{UID: uid, CompanyID: &companyID, Role: domain.RoleUser}, nil
		}}
		svc := user.NewService(repo, &fakeCompanies{}, fakeAuthz{}, nil, 0)

		_, err := svc.ListMembers(ctx, caller)

		assert.ErrorIs(t, err, apperror.ErrPermissionDenied)
		assert.Equal(t, 0, repo.listByCompanyHit)
	})

	t.Run("missing caller record", func(t *testing.T) {
		repo := &fakeRepo{findByUIDFn: func(ctx context.Context, uid string) (*user.User, error) { return nil, gorm.ErrRecordNotFound }}
		svc := user.NewService(repo, &fakeCompanies{}, fakeAuthz{}, nil, 0)

		_, err := svc.ListMembers(ctx, caller)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestService_Invalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := user.NewService(&fakeRepo{}, &fakeCompanies{}, fakeAuthz{}, rdb, 0)

	mock.ExpectDel("session:uid-1", "session:uid-2").SetVal(2)
	svc.Invalidate(context.Background(), "uid-1", "uid-2")

	assert.NoError(t, mock.ExpectationsWereMet())
}
