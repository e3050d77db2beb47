package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sailors-platform/sailor-api/internal/models"
)

func TestActivityLogRepositoryCreateAndList(t *testing.T) {
	db := setupTestDB(t, &models.ActivityLog{})
	repo := NewActivityLogRepository(db)

	entries := []models.ActivityLog{
		{AdminID: 1, AdminName: "Root", Action: "create_user", Target: "user", Details: "created account", Metadata: datatypes.JSONMap{}},
		{AdminID: 1, AdminName: "Root", Action: "delete_user", Target: "user", Details: "account removed", Metadata: datatypes.JSONMap{}},
		{AdminID: 2, AdminName: "Mod", Action: "update_user", Target: "user", Details: "role changed", Metadata: datatypes.JSONMap{}},
	}
	for i := range entries {
		require.NoError(t, repo.Create(context.Background(), &entries[i]))
	}

	logs, total, err := repo.List(context.Background(), ActivityLogFilter{Action: "create_user"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	require.Equal(t, "created account", logs[0].Details)

	adminID := uint(1)
	logs, total, err = repo.List(context.Background(), ActivityLogFilter{AdminID: &adminID})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
}

func TestActivityLogRepositoryListTimeWindow(t *testing.T) {
	db := setupTestDB(t, &models.ActivityLog{})
	repo := NewActivityLogRepository(db)

	old := models.ActivityLog{AdminID: 1, Action: "create_user", Target: "user", Metadata: datatypes.JSONMap{}}
	require.NoError(t, repo.Create(context.Background(), &old))
	stale := time.Now().Add(-48 * time.Hour).UTC()
	require.NoError(t, db.Model(&models.ActivityLog{}).Where("id = ?", old.ID).Update("created_at", stale).Error)

	recent := models.ActivityLog{AdminID: 1, Action: "update_user", Target: "user", Metadata: datatypes.JSONMap{}}
	require.NoError(t, repo.Create(context.Background(), &recent))

	from := time.Now().Add(-24 * time.Hour)
	logs, total, err := repo.List(context.Background(), ActivityLogFilter{From: &from})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "update_user", logs[0].Action)

	to := time.Now().Add(-24 * time.Hour)
	logs, total, err = repo.List(context.Background(), ActivityLogFilter{To: &to})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "create_user", logs[0].Action)
}
