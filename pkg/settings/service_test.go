package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cadenzafm/cadenza/pkg/migrations"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/cadenzafm/cadenza/pkg/users"
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

func newTestUser(t *testing.T, db *bun.DB) *models.User {
	t.Helper()

	user, err := users.NewService(db).Create(context.Background(), users.CreateUserOptions{
		Username: "listener",
		Password: "password123",
	})
	require.NoError(t, err)

	return user
}

func TestGetPlayerSettings_Defaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user := newTestUser(t, db)

	settings, err := svc.GetPlayerSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, settings.UserID)
	assert.Equal(t, 100, settings.PlayerVolume)
	assert.Equal(t, models.RepeatModeOff, settings.PlayerRepeatMode)
}

func TestUpdatePlayerSettings(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user := newTestUser(t, db)

	settings, err := svc.UpdatePlayerSettings(ctx, user.ID, 60, models.RepeatModeAll)
	require.NoError(t, err)
	assert.Equal(t, 60, settings.PlayerVolume)
	assert.Equal(t, models.RepeatModeAll, settings.PlayerRepeatMode)

	// A second update upserts the same row.
	settings, err = svc.UpdatePlayerSettings(ctx, user.ID, 80, models.RepeatModeOne)
	require.NoError(t, err)
	assert.Equal(t, 80, settings.PlayerVolume)

	fetched, err := svc.GetPlayerSettings(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, fetched.PlayerVolume)
	assert.Equal(t, models.RepeatModeOne, fetched.PlayerRepeatMode)
}

func TestIsValidRepeatMode(t *testing.T) {
	assert.True(t, IsValidRepeatMode(models.RepeatModeOff))
	assert.True(t, IsValidRepeatMode(models.RepeatModeAll))
	assert.True(t, IsValidRepeatMode(models.RepeatModeOne))
	assert.False(t, IsValidRepeatMode("shuffle"))
}
