package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/handler"
	"github.com/sanad-app/sanad-go-api/internal/models"
	"github.com/sanad-app/sanad-go-api/internal/repository"
)

type stubPlanService struct {
	plans     []dto.PlanResponse
	generated *uint
	group     *dto.PlanGenerateGroupRequest
	atRisk    []uint
	err       error
}

func (s *stubPlanService) GenerateForStudent(_ context.Context, studentID uint) (dto.PlanResponse, error) {
	if s.err != nil {
		return dto.PlanResponse{}, s.err
	}
	s.generated = &studentID
	return dto.PlanResponse{ID: 1, StudentID: studentID, PlanType: models.PlanTypeIndividual}, nil
}

func (s *stubPlanService) GenerateForGroup(_ context.Context, payload dto.PlanGenerateGroupRequest) (dto.PlanResponse, error) {
	if s.err != nil {
		return dto.PlanResponse{}, s.err
	}
	s.group = &payload
	return dto.PlanResponse{ID: 2, PlanType: models.PlanTypeGroup, TargetStudentIDs: payload.StudentIDs}, nil
}

func (s *stubPlanService) CreateManual(_ context.Context, payload dto.PlanCreateRequest) (dto.PlanResponse, error) {
	if s.err != nil {
		return dto.PlanResponse{}, s.err
	}
	return dto.PlanResponse{ID: 3, StudentID: payload.StudentID, CaseAnalysis: payload.CaseAnalysis}, nil
}

func (s *stubPlanService) Update(_ context.Context, id uint, _ dto.PlanUpdateRequest) (dto.PlanResponse, error) {
	return s.Get(context.Background(), id)
}

func (s *stubPlanService) Delete(_ context.Context, id uint) error {
	_, err := s.Get(context.Background(), id)
	return err
}

func (s *stubPlanService) List(_ context.Context, _ repository.PlanFilter) ([]dto.PlanResponse, error) {
	return s.plans, s.err
}

func (s *stubPlanService) Get(_ context.Context, id uint) (dto.PlanResponse, error) {
	for _, plan := range s.plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return dto.PlanResponse{}, gorm.ErrRecordNotFound
}

func (s *stubPlanService) SuggestAtRisk(_ context.Context) ([]uint, error) {
	return s.atRisk, s.err
}

func newPlanApp(svc *stubPlanService) *fiber.App {
	app := fiber.New()
	handler.NewPlanHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/plans"))
	return app
}

func TestPlanHandlerGenerate(t *testing.T) {
	svc := &stubPlanService{}
	app := newPlanApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/generate/4", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, svc.generated)
	require.Equal(t, uint(4), *svc.generated)
}

func TestPlanHandlerGenerateGroup(t *testing.T) {
	svc := &stubPlanService{}
	app := newPlanApp(svc)

	body := bytes.NewBufferString(`{"student_ids":[1,2,3]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans/generate-group", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, svc.group)
	require.Equal(t, []uint{1, 2, 3}, svc.group.StudentIDs)
}

func TestPlanHandlerSuggestAtRisk(t *testing.T) {
	svc := &stubPlanService{atRisk: []uint{2, 5}}
	app := newPlanApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/suggest-at-risk", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			StudentIDs []uint `json:"student_ids"`
		} `json:"data"`
	}
	decodeBody(t, resp, &payload)
	require.Equal(t, []uint{2, 5}, payload.Data.StudentIDs)
}

func TestPlanHandlerGetNotFound(t *testing.T) {
	app := newPlanApp(&stubPlanService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans/77", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
