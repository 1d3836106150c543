package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/app/models/dto"
	"github.com/openclep/clepfinder/internal/app/services"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/middleware"
	"github.com/openclep/clepfinder/internal/pkg/geocode"
	"github.com/openclep/clepfinder/internal/pkg/helpers"
	"github.com/openclep/clepfinder/internal/pkg/logger"
)

// InstitutionController handles institution query operations
type InstitutionController struct {
	institutionService services.InstitutionService
	geocoder           geocode.Geocoder
}

// NewInstitutionController creates a new InstitutionController
func NewInstitutionController(institutionService services.InstitutionService, geocoder geocode.Geocoder) *InstitutionController {
	return &InstitutionController{
		institutionService: institutionService,
		geocoder:           geocoder,
	}
}

// ListInstitutions handles the query-parameter search
// @Summary List institutions
// @Description Lists institutions, optionally filtered and sorted
// @Tags institutions
// @Produce json
// @Param state query string false "Two-letter state code"
// @Param minScore query int false "Minimum average accepted score"
// @Param minCredits query number false "Minimum credits awarded by at least one policy"
// @Param minExams query int false "Minimum number of accepted exams"
// @Param exam query []string false "Exam names that must be accepted"
// @Param name query string false "Name/city/state substring"
// @Param sortBy query string false "Sort order: name, exams or score"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 200)"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions [get]
func (c *InstitutionController) ListInstitutions(ctx *gin.Context) {
	var req dto.ListInstitutionsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid filter parameters").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	criteria := clep.Criteria{
		State:            req.State,
		MinScore:         req.MinScore,
		MinCredits:       req.MinCredits,
		MinExamsAccepted: req.MinExams,
		ExamNames:        req.Exam,
	}

	institutions, err := c.institutionService.Search(ctx, criteria, req.SortBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if req.Name != "" {
		named, err := c.institutionService.SearchByName(ctx, req.Name)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		institutions = intersect(institutions, named)
	}

	page, size := helpers.ParsePaginationParams(ctx)
	start, end := helpers.CalculateSliceIndices(page, size, len(institutions))

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.InstitutionListResponse{
			Institutions: institutions[start:end],
			Pagination:   helpers.NewPaginationInfo(int64(len(institutions)), page, size),
		},
	})
}

// SearchInstitutions handles the full-criteria search
// @Summary Search institutions
// @Description Searches institutions with the full criteria set, including per-exam user scores
// @Tags institutions
// @Accept json
// @Produce json
// @Param request body dto.SearchInstitutionsRequest true "Search criteria"
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions/search [post]
func (c *InstitutionController) SearchInstitutions(ctx *gin.Context) {
	var req dto.SearchInstitutionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid search criteria").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	criteria := clep.Criteria{
		State:            req.State,
		MinScore:         req.MinScore,
		MinCredits:       req.MinCredits,
		MinExamsAccepted: req.MinExams,
		ExamNames:        req.ExamNames,
	}
	for _, s := range req.UserExamScores {
		criteria.UserExamScores = append(criteria.UserExamScores, clep.UserExamScore{
			Exam:  s.ExamName,
			Score: s.Score,
		})
	}

	institutions, err := c.institutionService.Search(ctx, criteria, req.SortBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := req.Page, req.PageSize
	if page < 1 {
		page = helpers.DefaultPage
	}
	if size <= 0 || size > helpers.MaxPageSize {
		size = helpers.DefaultPageSize
	}
	start, end := helpers.CalculateSliceIndices(page, size, len(institutions))

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.InstitutionListResponse{
			Institutions: institutions[start:end],
			Pagination:   helpers.NewPaginationInfo(int64(len(institutions)), page, size),
		},
	})
}

// GetInstitutionByID handles single-institution lookup
// @Summary Get an institution by ID
// @Description Gets one institution with its full policy list
// @Tags institutions
// @Produce json
// @Param id path int true "Institution ID"
// @Success 200 {object} dto.APIResponse{data=models.Institution}
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions/{id} [get]
func (c *InstitutionController) GetInstitutionByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid institution ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	inst, err := c.institutionService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: inst})
}

// ListExams handles exam catalog listing
// @Summary List CLEP exams
// @Description Lists the fixed CLEP exam catalog in stable order
// @Tags exams
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ExamListResponse}
// @Router /exams [get]
func (c *InstitutionController) ListExams(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ExamListResponse{Exams: clep.Catalog()},
	})
}

// GetExamStats handles per-exam statistics
// @Summary Get exam statistics
// @Description Aggregates one exam's acceptance terms across all institutions
// @Tags exams
// @Produce json
// @Param name path string true "Exam name"
// @Success 200 {object} dto.APIResponse{data=clep.ExamStatistics}
// @Failure 400 {object} dto.ErrorResponse "Unknown exam"
// @Failure 404 {object} dto.ErrorResponse "No institution accepts the exam"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{name}/stats [get]
func (c *InstitutionController) GetExamStats(ctx *gin.Context) {
	stats, err := c.institutionService.ExamStats(ctx, ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats})
}

// GetMapMarkers handles the map pin listing
// @Summary Get map markers
// @Description Returns geocoded institution pins. Institutions whose address cannot be geocoded are omitted.
// @Tags institutions
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.MapMarkerResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /map/markers [get]
func (c *InstitutionController) GetMapMarkers(ctx *gin.Context) {
	institutions, err := c.institutionService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	markers := make([]dto.MapMarkerResponse, 0, len(institutions))
	for _, inst := range institutions {
		if inst.Zip == "" {
			continue
		}
		coords, ok, err := c.geocoder.Lookup(ctx, inst.Zip, inst.City, inst.State)
		if err != nil {
			logger.Warn().Err(err).Str("institution", inst.Name).Msg("Geocoding failed")
			continue
		}
		if !ok {
			continue
		}
		markers = append(markers, dto.MapMarkerResponse{
			ID:            inst.ID,
			Name:          inst.Name,
			State:         inst.State,
			Latitude:      coords.Latitude,
			Longitude:     coords.Longitude,
			ExamsAccepted: inst.ExamsAccepted,
		})
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: markers})
}

// intersect keeps the institutions of a that also appear in b, preserving
// a's order.
func intersect(a, b []*models.Institution) []*models.Institution {
	inB := make(map[int64]struct{}, len(b))
	for _, inst := range b {
		inB[inst.ID] = struct{}{}
	}
	var out []*models.Institution
	for _, inst := range a {
		if _, ok := inB[inst.ID]; ok {
			out = append(out, inst)
		}
	}
	return out
}
