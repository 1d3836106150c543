package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/app/models/dto"
	"github.com/openclep/clepfinder/internal/app/services"
	"github.com/openclep/clepfinder/internal/middleware"
)

// PortalController handles institution-side policy editing
type PortalController struct {
	portalService      services.PortalService
	institutionService services.InstitutionService
}

// NewPortalController creates a new PortalController
func NewPortalController(portalService services.PortalService, institutionService services.InstitutionService) *PortalController {
	return &PortalController{
		portalService:      portalService,
		institutionService: institutionService,
	}
}

// sessionDICode extracts the institution DI code from the session or
// aborts with 403.
func sessionDICode(ctx *gin.Context) (int64, bool) {
	diCode, ok := middleware.SessionDICode(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("Session is not bound to an institution")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return diCode, true
}

// GetOverrides handles override listing for the session's institution
// @Summary List policy overrides
// @Description Lists the stored overrides of the session's institution
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OverrideListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /portal/overrides [get]
func (c *PortalController) GetOverrides(ctx *gin.Context) {
	diCode, ok := sessionDICode(ctx)
	if !ok {
		return
	}

	overrides, err := c.portalService.GetOverrides(ctx, diCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.OverrideListResponse{
			InstitutionDICode: diCode,
			Overrides:         overrides,
		},
	})
}

// UpsertOverride handles a single-exam override update
// @Summary Upsert a policy override
// @Description Merges the given fields into the override for one exam. Omitted fields keep their stored values; the row is created when missing.
// @Tags portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam path string true "Exam name"
// @Param request body dto.UpsertOverrideRequest true "Fields to merge"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 502 {object} dto.ErrorResponse "Store failure"
// @Router /portal/overrides/{exam} [put]
func (c *PortalController) UpsertOverride(ctx *gin.Context) {
	diCode, ok := sessionDICode(ctx)
	if !ok {
		return
	}

	var req dto.UpsertOverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid override data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	patch := models.OverridePatch{
		MinScore:   req.MinScore,
		Credits:    req.Credits,
		CourseCode: req.CourseCode,
		Category:   req.Category,
	}
	if patch.Empty() {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "At least one field is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if !c.portalService.UpsertOverride(ctx, diCode, ctx.Param("exam"), patch) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Failed to store the override")
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Override stored"},
	})
}

// ApplyBatch handles a batch of field-level updates
// @Summary Apply a batch of updates
// @Description Applies each update independently and reports per-item results. A failed item never aborts the rest.
// @Tags portal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchUpdateRequest true "Updates"
// @Success 200 {object} dto.APIResponse{data=dto.BatchUpdateResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /portal/overrides/batch [post]
func (c *PortalController) ApplyBatch(ctx *gin.Context) {
	diCode, ok := sessionDICode(ctx)
	if !ok {
		return
	}

	var req dto.BatchUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	actions := make([]models.UpdateAction, 0, len(req.Updates))
	for _, u := range req.Updates {
		actions = append(actions, models.UpdateAction{Exam: u.ExamName, Field: u.Field, Value: u.Value})
	}

	updated, failed, results := c.portalService.ApplyBatch(ctx, diCode, actions)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: batchResponse(updated, failed, results)})
}

// InitializeDefaults handles default-row creation
// @Summary Initialize default overrides
// @Description Creates an empty override row for every catalog exam. A no-op when rows already exist.
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InitializeDefaultsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Router /portal/overrides/init [post]
func (c *PortalController) InitializeDefaults(ctx *gin.Context) {
	diCode, ok := sessionDICode(ctx)
	if !ok {
		return
	}

	created, skipped, err := c.portalService.InitializeDefaults(ctx, diCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.InitializeDefaultsResponse{Created: created, Skipped: skipped},
	})
}

// DeleteInstitutionOverrides handles the admin reset of one institution
// @Summary Delete an institution's overrides
// @Description Removes every stored override for the institution. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param diCode path int true "Institution DI code"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid DI code"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/institutions/{diCode}/overrides [delete]
func (c *PortalController) DeleteInstitutionOverrides(ctx *gin.Context) {
	diCode, err := strconv.ParseInt(ctx.Param("diCode"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid DI code")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	deleted, err := c.portalService.DeleteOverrides(ctx, diCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: strconv.FormatInt(deleted, 10) + " override(s) deleted"},
	})
}

// ClearCache handles the admin cache reset
// @Summary Clear the institution cache
// @Description Drops the cached institution snapshot so the next read reloads from the store. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/cache/clear [post]
func (c *PortalController) ClearCache(ctx *gin.Context) {
	c.institutionService.ClearCache()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Cache cleared"},
	})
}

func batchResponse(updated, failed int, results []services.BatchResult) dto.BatchUpdateResponse {
	resp := dto.BatchUpdateResponse{
		Updated: updated,
		Failed:  failed,
		Results: make([]dto.BatchItemResult, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, dto.BatchItemResult{
			ExamName: r.Exam,
			Field:    r.Field,
			OK:       r.OK,
			Reason:   r.Reason,
		})
	}
	return resp
}
