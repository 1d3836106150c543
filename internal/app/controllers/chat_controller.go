package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/app/models/dto"
	"github.com/openclep/clepfinder/internal/app/services"
	"github.com/openclep/clepfinder/internal/middleware"
)

// ChatController handles assistant conversations
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Ask handles a visitor question
// @Summary Ask the assistant
// @Description Answers a question about CLEP acceptance, grounded in the institution data
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question"
// @Success 200 {object} dto.APIResponse{data=dto.ChatResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 503 {object} dto.ErrorResponse "Assistant unavailable"
// @Router /chat [post]
func (c *ChatController) Ask(ctx *gin.Context) {
	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid chat data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	reply, err := c.chatService.Ask(ctx, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.ChatResponse{Reply: reply}})
}

// ExtractIntent handles a portal update request in natural language
// @Summary Extract update intent
// @Description Turns a natural-language update request into validated field-level actions for confirmation
// @Tags portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IntentRequest true "Update request"
// @Success 200 {object} dto.APIResponse{data=dto.IntentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 422 {object} dto.ErrorResponse "No update commands found"
// @Failure 503 {object} dto.ErrorResponse "Assistant unavailable"
// @Router /portal/chat/intent [post]
func (c *ChatController) ExtractIntent(ctx *gin.Context) {
	if _, ok := sessionDICode(ctx); !ok {
		return
	}

	var req dto.IntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid intent data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	summary, actions, err := c.chatService.ExtractIntent(ctx, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.IntentResponse{Understood: true, Summary: summary}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, dto.UpdateActionRequest{
			ExamName: a.Exam,
			Field:    a.Field,
			Value:    a.Value,
		})
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// ConfirmIntent applies previously extracted actions
// @Summary Confirm extracted updates
// @Description Applies previously extracted update actions as a batch
// @Tags portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConfirmIntentRequest true "Actions to apply"
// @Success 200 {object} dto.APIResponse{data=dto.BatchUpdateResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /portal/chat/confirm [post]
func (c *ChatController) ConfirmIntent(ctx *gin.Context) {
	diCode, ok := sessionDICode(ctx)
	if !ok {
		return
	}

	var req dto.ConfirmIntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid confirmation data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	actions := make([]models.UpdateAction, 0, len(req.Actions))
	for _, a := range req.Actions {
		actions = append(actions, models.UpdateAction{Exam: a.ExamName, Field: a.Field, Value: a.Value})
	}

	updated, failed, results := c.chatService.ConfirmActions(ctx, diCode, actions)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: batchResponse(updated, failed, results)})
}
