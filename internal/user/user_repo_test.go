package user_test

import (
	"context"
	"testing"
	"time"

	"go-attendance/internal/domain"
	"go-attendance/internal/shared/database/dbtest"
	"go-attendance/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindByUIDForUpdate(t *testing.T) {
	gdb, mock := dbtest.New(t)
	repo := user.NewRepository(gdb)
	companyID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE uid = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "user_name", "company_id", "role", "email", "created_at", "updated_at"}).
			AddRow("uid-1", "Alice", companyID, "admin", "alice@example.com", now, now))

	u, err := repo.FindByUIDForUpdate(context.Background(), "uid-1")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.True(t, u.InCompany(companyID))
}

func TestRepository_Delete(t *testing.T) {
	gdb, mock := dbtest.New(t)
	repo := user.NewRepository(gdb)

	mock.ExpectExec(`DELETE FROM "users" WHERE uid = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestUser_Helpers(t *testing.T) {
	companyID := uuid.New()
	var nilUser *user.User

	assert.False(t, nilUser.HasCompany())
	assert.False(t, (&user.User{CompanyID: &uuid.Nil}).HasCompany())
	assert.True(t, (&user.User{CompanyID: &companyID, Role: domain.RoleAdmin}).IsAdmin())
	assert.False(t, (&user.User{CompanyID: &companyID}).InCompany(uuid.New()))
}
