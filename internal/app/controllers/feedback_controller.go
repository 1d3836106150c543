package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/app/models/dto"
	"github.com/openclep/clepfinder/internal/app/services"
	"github.com/openclep/clepfinder/internal/middleware"
)

// FeedbackController handles policy accuracy voting
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// Vote handles an up/down vote
// @Summary Vote on a policy
// @Description Records an up or down vote on an institution's exam policy. Repeating a vote removes it; the opposite vote replaces it.
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body dto.VoteRequest true "Vote"
// @Success 200 {object} dto.APIResponse{data=dto.VoteResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid vote"
// @Router /feedback/votes [post]
func (c *FeedbackController) Vote(ctx *gin.Context) {
	var req dto.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid vote data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	dir, err := c.feedbackService.Vote(req.InstitutionID, req.ExamName, models.VoteDirection(req.Direction))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.VoteResponse{
			InstitutionID: req.InstitutionID,
			ExamName:      req.ExamName,
			Direction:     string(dir),
		},
	})
}

// GetExamCounts handles per-exam vote totals
// @Summary Get vote counts for an exam
// @Description Returns the up/down vote totals for one exam across all institutions
// @Tags feedback
// @Produce json
// @Param name path string true "Exam name"
// @Success 200 {object} dto.APIResponse{data=dto.VoteCountsResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown exam"
// @Router /feedback/exams/{name} [get]
func (c *FeedbackController) GetExamCounts(ctx *gin.Context) {
	examName := ctx.Param("name")
	counts, err := c.feedbackService.CountsFor(examName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.VoteCountsResponse{
			ExamName: examName,
			Up:       counts.Up,
			Down:     counts.Down,
		},
	})
}
