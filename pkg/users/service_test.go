package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cadenzafm/cadenza/pkg/migrations"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{
		Username: "listener",
		Email:    pointerutil.String("listener@example.com"),
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserOptions{Username: "listener", Password: "password123"})
	require.NoError(t, err)

	// Username uniqueness ignores case.
	_, err = svc.Create(ctx, CreateUserOptions{Username: "LISTENER", Password: "password123"})
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{Username: "listener", Password: "password123"})
	require.NoError(t, err)

	user.IsAdmin = true
	err = svc.Update(ctx, user, UpdateOptions{Columns: []string{"is_admin"}})
	require.NoError(t, err)

	fetched, err := svc.Retrieve(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsAdmin)
}

func TestResetPasswordAndVerify(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{Username: "listener", Password: "password123"})
	require.NoError(t, err)

	valid, err := svc.VerifyPassword(ctx, user.ID, "password123")
	require.NoError(t, err)
	assert.True(t, valid)

	err = svc.ResetPassword(ctx, user.ID, "new-password-456")
	require.NoError(t, err)

	valid, err = svc.VerifyPassword(ctx, user.ID, "password123")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = svc.VerifyPassword(ctx, user.ID, "new-password-456")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestDeactivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserOptions{Username: "listener", Password: "password123"})
	require.NoError(t, err)

	err = svc.Deactivate(ctx, user.ID)
	require.NoError(t, err)

	fetched, err := svc.Retrieve(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
}

func TestList(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		_, err := svc.Create(ctx, CreateUserOptions{Username: name, Password: "password123"})
		require.NoError(t, err)
	}

	userList, total, err := svc.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, userList, 2)
}
