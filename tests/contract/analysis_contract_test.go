package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/sanad-app/sanad-go-api/internal/dto"
	"github.com/sanad-app/sanad-go-api/internal/engine"
	"github.com/sanad-app/sanad-go-api/internal/handler"
	"github.com/sanad-app/sanad-go-api/internal/models"
)

type stubAnalysisService struct {
	response dto.StudentAnalysisResponse
}

func (s stubAnalysisService) AnalyzeStudent(context.Context, uint) (dto.StudentAnalysisResponse, error) {
	return s.response, nil
}

func (s stubAnalysisService) GetOverview(context.Context) (dto.OverviewResponse, error) {
	return dto.OverviewResponse{}, nil
}

func (s stubAnalysisService) ClassAverage(context.Context) (float64, error) {
	return 0, nil
}

func TestStudentAnalysisContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "student_analysis.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	response := dto.StudentAnalysisResponse{
		StudentID:   7,
		StudentName: "Maha Adel",
		Status:      models.StudentStatusActive,
		Analysis: engine.Analysis{
			StudentID:           7,
			WeightedAverage:     52.5,
			Trend:               engine.TrendDown,
			TrendPercentage:     -9.1,
			AcademicRiskIndex:   45,
			BehavioralRiskIndex: 33,
			StabilityScore:      95,
			RiskLevel:           engine.RiskNeedsIntervention,
			ClassComparison:     -12.3,
		},
	}

	app := fiber.New()
	analysisHandler := handler.NewAnalysisHandler(stubAnalysisService{response: response}, zerolog.Nop())
	analysisHandler.RegisterStudentRoutes(app.Group("/api/v1/students"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/7/analysis", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
