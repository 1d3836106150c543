package dto

import "github.com/openclep/clepfinder/internal/app/models"

// UpsertOverrideRequest carries the fields to merge into one exam's
// override. Omitted fields keep their current values.
type UpsertOverrideRequest struct {
	MinScore   *string `json:"minScore"`
	Credits    *string `json:"credits"`
	CourseCode *string `json:"courseCode"`
	Category   *string `json:"category"`
}

// UpdateActionRequest is one field-level update inside a batch.
type UpdateActionRequest struct {
	ExamName string `json:"examName" binding:"required"`
	Field    string `json:"field" binding:"required" enums:"minScore,credits,courseCode"`
	Value    string `json:"value"`
}

// BatchUpdateRequest represents a batch of field-level updates
type BatchUpdateRequest struct {
	Updates []UpdateActionRequest `json:"updates" binding:"required"`
}

// BatchItemResult reports the outcome of one update in a batch.
type BatchItemResult struct {
	ExamName string `json:"examName"`
	Field    string `json:"field"`
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
}

// BatchUpdateResponse reports a batch outcome, including partial success.
type BatchUpdateResponse struct {
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}

// OverrideListResponse represents an institution's stored overrides
type OverrideListResponse struct {
	InstitutionDICode int64                     `json:"institutionDiCode"`
	Overrides         []*models.PolicyOverride  `json:"overrides"`
}

// InitializeDefaultsResponse reports the outcome of default-row creation
type InitializeDefaultsResponse struct {
	Created int  `json:"created"`
	Skipped bool `json:"skipped"`
}
