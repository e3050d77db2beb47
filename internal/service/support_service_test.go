package service

import (
	"context"
	"io"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/models"
	"github.com/sailors-platform/sailor-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type supportRepoStub struct {
	created      *models.SupportRequest
	stored       models.SupportRequest
	getErr       error
	comments     []models.SupportComment
	updates      map[string]interface{}
	commentAdded *models.SupportComment
}

func (s *supportRepoStub) Create(_ context.Context, request *models.SupportRequest) error {
	request.ID = 1
	s.created = request
	return nil
}

func (s *supportRepoStub) GetByID(_ context.Context, _ uint) (models.SupportRequest, error) {
	if s.getErr != nil {
		return models.SupportRequest{}, s.getErr
	}
	return s.stored, nil
}

func (s *supportRepoStub) ListBySubmitter(_ context.Context, _ uint) ([]models.SupportRequest, error) {
	return []models.SupportRequest{s.stored}, nil
}

func (s *supportRepoStub) List(_ context.Context, _ repository.SupportFilter) ([]models.SupportRequest, int64, error) {
	return []models.SupportRequest{s.stored}, 1, nil
}

func (s *supportRepoStub) UpdateStatus(_ context.Context, _ uint, updates map[string]interface{}) error {
	s.updates = updates
	return nil
}

func (s *supportRepoStub) AddComment(_ context.Context, comment *models.SupportComment) error {
	comment.ID = 1
	s.commentAdded = comment
	return nil
}

func (s *supportRepoStub) ListComments(_ context.Context, _ uint) ([]models.SupportComment, error) {
	return s.comments, nil
}

type alerterStub struct {
	calls int
	title string
}

func (a *alerterStub) SystemAlert(_ context.Context, title, _, _ string) error {
	a.calls++
	a.title = title
	return nil
}

func newTestSupportService(repo repository.SupportRepository, cache *redis.Client, alerter AdminAlerter) SupportService {
	return NewSupportService(repo, cache, validator.New(), NewLogMailer("support@sailors.example", testLogger()), alerter, 0, testLogger())
}

func TestSupportServiceSubmitHoneypot(t *testing.T) {
	svc := newTestSupportService(&supportRepoStub{}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SupportSubmitRequest{
		Title: "Real title", Description: "Real description", Category: "bug", Honeypot: "bot",
	})
	require.ErrorIs(t, err, ErrSupportSpam)
}

func TestSupportServiceSubmitAnonymousDropsIdentity(t *testing.T) {
	repo := &supportRepoStub{}
	alerter := &alerterStub{}
	svc := newTestSupportService(repo, nil, alerter)

	submitterID := uint(12)
	name := "Ariel"
	email := "ariel@example.com"
	resp, err := svc.Submit(context.Background(), dto.SupportSubmitRequest{
		Title: "Harassment report", Description: "Details of the incident", Category: "Abuse",
		IsAnonymous: true, SubmitterID: &submitterID, SubmitterName: &name, SubmitterEmail: &email,
	})
	require.NoError(t, err)
	require.Equal(t, models.SupportStatusPending, resp.Status)

	require.NotNil(t, repo.created)
	require.True(t, repo.created.IsAnonymous)
	require.Nil(t, repo.created.SubmitterID)
	require.Nil(t, repo.created.SubmitterName)
	require.Nil(t, repo.created.SubmitterEmail)
	require.Equal(t, "abuse", repo.created.Category)
	require.Equal(t, 1, alerter.calls)
}

func TestSupportServiceSubmitKeepsIdentity(t *testing.T) {
	repo := &supportRepoStub{}
	svc := newTestSupportService(repo, nil, nil)

	submitterID := uint(12)
	_, err := svc.Submit(context.Background(), dto.SupportSubmitRequest{
		Title: "Playback issue", Description: "Track cuts out halfway", Category: "bug",
		SubmitterID: &submitterID,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created.SubmitterID)
	require.Equal(t, submitterID, *repo.created.SubmitterID)
}

func TestSupportServiceSubmitSanitizesToEmpty(t *testing.T) {
	svc := newTestSupportService(&supportRepoStub{}, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SupportSubmitRequest{
		Title: "<script>alert(1)</script>", Description: "A perfectly fine description", Category: "bug",
	})
	require.ErrorIs(t, err, ErrSupportInvalid)
}

func TestSupportServiceSubmitBlankCategory(t *testing.T) {
	repo := &supportRepoStub{}
	svc := newTestSupportService(repo, nil, nil)

	_, err := svc.Submit(context.Background(), dto.SupportSubmitRequest{
		Title: "Valid title", Description: "A perfectly fine description", Category: "   ",
	})
	require.ErrorIs(t, err, ErrSupportInvalid)
	require.Nil(t, repo.created)
}

func TestSupportServiceSubmitDuplicate(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	svc := newTestSupportService(&supportRepoStub{}, redisClient, nil)

	payload := dto.SupportSubmitRequest{Title: "Same title", Description: "Same description text", Category: "bug"}
	_, err = svc.Submit(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), payload)
	require.ErrorIs(t, err, ErrSupportDuplicate)
}

func TestSupportServiceAccessControl(t *testing.T) {
	owner := uint(5)
	stored := models.SupportRequest{ID: 1, Title: "Owned", Description: "mine", Category: "bug", SubmitterID: &owner, Status: models.SupportStatusPending}

	cases := []struct {
		name    string
		request models.SupportRequest
		actor   Actor
		wantErr error
	}{
		{"admin sees everything", stored, Actor{ID: 9, Role: models.RoleAdmin}, nil},
		{"owner sees own", stored, Actor{ID: owner, Role: models.RoleUser}, nil},
		{"stranger is rejected", stored, Actor{ID: 6, Role: models.RoleUser}, ErrSupportForbidden},
		{"unauthenticated is rejected", stored, Actor{}, ErrSupportUnauthorized},
		{"anonymous has no owner", models.SupportRequest{ID: 2, IsAnonymous: true}, Actor{ID: owner, Role: models.RoleUser}, ErrSupportForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &supportRepoStub{stored: tc.request}
			svc := newTestSupportService(repo, nil, nil)

			_, err := svc.Get(context.Background(), tc.request.ID, tc.actor)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestSupportServiceGetNotFound(t *testing.T) {
	repo := &supportRepoStub{getErr: gorm.ErrRecordNotFound}
	svc := newTestSupportService(repo, nil, nil)

	_, err := svc.Get(context.Background(), 404, Actor{ID: 1, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrSupportNotFound)
}

func TestSupportServiceUpdateStatusRequiresAdmin(t *testing.T) {
	svc := newTestSupportService(&supportRepoStub{}, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, dto.SupportUpdateRequest{Status: models.SupportStatusResolved}, Actor{ID: 3, Role: models.RoleUser})
	require.ErrorIs(t, err, ErrSupportForbidden)
}

func TestSupportServiceUpdateStatusRecordsAdmin(t *testing.T) {
	repo := &supportRepoStub{stored: models.SupportRequest{ID: 1, Title: "Ticket", Status: models.SupportStatusResolved}}
	svc := newTestSupportService(repo, nil, nil)

	resolution := "fixed in release"
	resp, err := svc.UpdateStatus(context.Background(), 1, dto.SupportUpdateRequest{
		Status: models.SupportStatusResolved, Resolution: &resolution,
	}, Actor{ID: 9, Name: "Ops", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, models.SupportStatusResolved, resp.Status)
	require.Equal(t, models.SupportStatusResolved, repo.updates["status"])
	require.Equal(t, uint(9), repo.updates["admin_id"])
	require.Equal(t, "fixed in release", repo.updates["resolution"])
}

func TestSupportServiceUpdateStatusRejectsUnknown(t *testing.T) {
	svc := newTestSupportService(&supportRepoStub{}, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, dto.SupportUpdateRequest{Status: "closed"}, Actor{ID: 9, Role: models.RoleAdmin})
	require.Error(t, err)
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestSupportServiceAddCommentEmptyMessage(t *testing.T) {
	repo := &supportRepoStub{stored: models.SupportRequest{ID: 1}}
	svc := newTestSupportService(repo, nil, nil)

	_, err := svc.AddComment(context.Background(), 1, dto.CommentCreateRequest{Message: "   "}, Actor{ID: 9, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrCommentEmpty)
	require.Nil(t, repo.commentAdded)
}

func TestSupportServiceAddCommentDerivesRole(t *testing.T) {
	owner := uint(5)
	repo := &supportRepoStub{stored: models.SupportRequest{ID: 1, SubmitterID: &owner}}
	svc := newTestSupportService(repo, nil, nil)

	comment, err := svc.AddComment(context.Background(), 1, dto.CommentCreateRequest{Message: "any update?"}, Actor{ID: owner, Name: "Ariel", Role: "USER"})
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, comment.AuthorRole)
	require.NotEmpty(t, comment.ReferenceID)
	require.Equal(t, owner, repo.commentAdded.AuthorID)
}
