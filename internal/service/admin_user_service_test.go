package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/repository"
)

type recorderStub struct {
	entries []ActivityEntry
}

func (r *recorderStub) Record(_ context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	r.entries = append(r.entries, entry)
	return dto.ActivityResponse{}, nil
}

func newTestAdminUserService(t *testing.T, recorder ActivityRecorder) AdminUserService {
	t.Helper()
	db := setupServiceDB(t, &models.User{})
	repo := repository.NewUserRepository(db)
	return NewAdminUserService(repo, validator.New(), recorder, testLogger())
}

func TestAdminUserServiceCreateAuditsOnce(t *testing.T) {
	recorder := &recorderStub{}
	svc := newTestAdminUserService(t, recorder)

	actor := Actor{ID: 1, Name: "Root", Role: models.RoleAdmin, IP: "203.0.113.9"}
	user, err := svc.Create(context.Background(), dto.AdminUserCreateRequest{Name: "New Sailor", Email: "New@Example.com"}, actor)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)
	require.Equal(t, models.UserStatusActive, user.Status)

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	require.Equal(t, "create_user", entry.Action)
	require.Equal(t, "user", entry.Target)
	require.NotNil(t, entry.TargetID)
	require.Equal(t, user.ID, *entry.TargetID)
	require.Equal(t, actor.ID, entry.AdminID)
	require.Equal(t, actor.IP, entry.IPAddress)
}

func TestAdminUserServiceCreateDuplicateEmail(t *testing.T) {
	recorder := &recorderStub{}
	svc := newTestAdminUserService(t, recorder)

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	_, err := svc.Create(context.Background(), dto.AdminUserCreateRequest{Name: "First", Email: "dup@example.com"}, actor)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.AdminUserCreateRequest{Name: "Second", Email: "DUP@example.com"}, actor)
	require.ErrorIs(t, err, ErrAdminUserDuplicate)

	// Failed mutation must not reach the audit trail.
	require.Len(t, recorder.entries, 1)
}

func TestAdminUserServiceUpdateAuditsChangedFields(t *testing.T) {
	recorder := &recorderStub{}
	svc := newTestAdminUserService(t, recorder)

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	user, err := svc.Create(context.Background(), dto.AdminUserCreateRequest{Name: "Changer", Email: "changer@example.com"}, actor)
	require.NoError(t, err)

	status := models.UserStatusSuspended
	updated, err := svc.Update(context.Background(), user.ID, dto.AdminUserUpdateRequest{Status: &status}, actor)
	require.NoError(t, err)
	require.Equal(t, models.UserStatusSuspended, updated.Status)

	require.Len(t, recorder.entries, 2)
	entry := recorder.entries[1]
	require.Equal(t, "update_user", entry.Action)
	require.Equal(t, []string{"status"}, entry.Metadata["fields"])
}

func TestAdminUserServiceUpdateMissing(t *testing.T) {
	svc := newTestAdminUserService(t, &recorderStub{})

	name := "Ghost"
	_, err := svc.Update(context.Background(), 404, dto.AdminUserUpdateRequest{Name: &name}, Actor{ID: 1, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrAdminUserNotFound)
}

func TestAdminUserServiceDeleteAudits(t *testing.T) {
	recorder := &recorderStub{}
	svc := newTestAdminUserService(t, recorder)

	actor := Actor{ID: 1, Role: models.RoleAdmin}
	user, err := svc.Create(context.Background(), dto.AdminUserCreateRequest{Name: "Bye", Email: "bye@example.com"}, actor)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID, actor))

	require.Len(t, recorder.entries, 2)
	require.Equal(t, "delete_user", recorder.entries[1].Action)
	require.Equal(t, user.ID, *recorder.entries[1].TargetID)

	_, err = svc.Get(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrAdminUserNotFound)
}
