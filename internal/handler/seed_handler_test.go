package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/handler"
	"github.com/sanad-app/sanad-go-api/internal/service"
)

type stubSeedService struct {
	result service.SeedResult
	err    error
	token  string
}

func (s *stubSeedService) SeedDemoRoster(_ context.Context, token string) (service.SeedResult, error) {
	s.token = token
	if s.err != nil {
		return service.SeedResult{}, s.err
	}
	return s.result, nil
}

func TestSeedHandlerDemo(t *testing.T) {
	svc := &stubSeedService{result: service.SeedResult{Students: 5, Grades: 25, Behaviors: 18}}
	app := fiber.New()
	handler.NewSeedHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/seed"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/seed/demo", nil)
	req.Header.Set("X-Seed-Token", "secret")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "secret", svc.token)

	var payload struct {
		Data service.SeedResult `json:"data"`
	}
	decodeBody(t, resp, &payload)
	require.Equal(t, 5, payload.Data.Students)
}

func TestSeedHandlerForbidden(t *testing.T) {
	cases := []error{service.ErrSeedDisabled, service.ErrSeedUnauthorized}
	for _, seedErr := range cases {
		svc := &stubSeedService{err: seedErr}
		app := fiber.New()
		handler.NewSeedHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/seed"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/seed/demo", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	}
}
