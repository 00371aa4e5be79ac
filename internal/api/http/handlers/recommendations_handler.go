package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deca109/TaskFlow.ai/internal/api/dto"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/service"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

// RecommendationsHandler exposes the employee recommendation endpoint.
type RecommendationsHandler struct {
	recommendations *service.RecommendationService
}

// NewRecommendationsHandler constructs the handler.
func NewRecommendationsHandler(recommendations *service.RecommendationService) *RecommendationsHandler {
	return &RecommendationsHandler{recommendations: recommendations}
}

// Recommend handles GET /recommend/:taskId. An empty candidate pool answers
// 204 so callers can distinguish it from an unknown task.
func (h *RecommendationsHandler) Recommend(c *fiber.Ctx) error {
	rec, err := h.recommendations.Recommend(c.UserContext(), c.Params("taskId"))
	if err != nil {
		if apperrors.IsCode(err, "NO_ELIGIBLE") {
			return c.SendStatus(http.StatusNoContent)
		}
		return err
	}

	ranked := make([]dto.CandidateResponse, 0, len(rec.Ranked))
	for i := range rec.Ranked {
		ranked = append(ranked, candidateResponse(&rec.Ranked[i]))
	}
	return c.JSON(fiber.Map{"data": dto.RecommendationResponse{
		TaskID: rec.TaskID,
		Best:   candidateResponse(&rec.Best),
		Ranked: ranked,
	}})
}

func candidateResponse(cand *domain.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		Employee:        employeeResponse(&cand.Employee),
		Score:           cand.Score,
		SkillMatchRatio: cand.SkillMatchRatio,
	}
}
