package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/sailors-platform/sailor-api/internal/dto"
	"github.com/sailors-platform/sailor-api/internal/handler"
	"github.com/sailors-platform/sailor-api/internal/service"
)

type mockNotificationService struct {
	created  dto.NotificationCreateRequest
	response dto.NotificationResponse
	modified int64
	err      error
}

func (m *mockNotificationService) Create(_ context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	m.created = payload
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockNotificationService) List(_ context.Context, _ dto.NotificationListRequest) (dto.NotificationListResponse, error) {
	if m.err != nil {
		return dto.NotificationListResponse{}, m.err
	}
	return dto.NotificationListResponse{Items: []dto.NotificationResponse{m.response}}, nil
}

func (m *mockNotificationService) Get(_ context.Context, _ uint) (dto.NotificationResponse, error) {
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockNotificationService) MarkRead(_ context.Context, _ uint) (dto.NotificationResponse, error) {
	if m.err != nil {
		return dto.NotificationResponse{}, m.err
	}
	read := m.response
	read.IsRead = true
	return read, nil
}

func (m *mockNotificationService) MarkAllRead(_ context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.modified, nil
}

func (m *mockNotificationService) Delete(_ context.Context, _ uint) error {
	return m.err
}

func (m *mockNotificationService) Subscribe() (<-chan dto.NotificationResponse, func()) {
	ch := make(chan dto.NotificationResponse)
	return ch, func() { close(ch) }
}

func (m *mockNotificationService) Start(_ context.Context) {}

func newNotificationApp(svc service.AdminNotificationService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/admin/notifications", asAdmin(1, "root"))
	handler.NewAdminNotificationHandler(svc, discardLogger(), 30*time.Second).Register(group)
	return app
}

func TestAdminNotificationHandlerCreate(t *testing.T) {
	svc := &mockNotificationService{response: dto.NotificationResponse{ID: 1, Title: "Maintenance", Type: "info", Category: "system"}}
	app := newNotificationApp(svc)

	body, err := json.Marshal(dto.NotificationCreateRequest{Title: "Maintenance", Message: "window tonight"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/notifications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Maintenance", svc.created.Title)
}

func TestAdminNotificationHandlerMarkRead(t *testing.T) {
	svc := &mockNotificationService{response: dto.NotificationResponse{ID: 4}}
	app := newNotificationApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/notifications/4/read", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.NotificationResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Data.IsRead)
}

func TestAdminNotificationHandlerMarkAllRead(t *testing.T) {
	svc := &mockNotificationService{modified: 7}
	app := newNotificationApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/notifications/mark-all-read", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data struct {
			ModifiedCount int64 `json:"modified_count"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(7), response.Data.ModifiedCount)
}

func TestAdminNotificationHandlerDeleteMissing(t *testing.T) {
	svc := &mockNotificationService{err: service.ErrNotificationNotFound}
	app := newNotificationApp(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/notifications/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminNotificationHandlerBadID(t *testing.T) {
	app := newNotificationApp(&mockNotificationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/notifications/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
