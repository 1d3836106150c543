package dto

import "github.com/openclep/clepfinder/internal/app/models"

// UserExamScoreRequest is one exam the requester has already taken.
type UserExamScoreRequest struct {
	ExamName string `json:"examName" binding:"required"`
	Score    *int   `json:"score"`
}

// SearchInstitutionsRequest represents the full search criteria body.
type SearchInstitutionsRequest struct {
	State          string                 `json:"state"`
	MinScore       *int                   `json:"minScore"`
	MinCredits     *float64               `json:"minCredits"`
	MinExams       *int                   `json:"minExamsAccepted"`
	ExamNames      []string               `json:"examNames"`
	UserExamScores []UserExamScoreRequest `json:"userExamScores"`
	SortBy         string                 `json:"sortBy" example:"name" enums:"name,exams,score"`
	Page           int                    `json:"page"`
	PageSize       int                    `json:"pageSize"`
}

// ListInstitutionsRequest represents the query-param variant of search.
type ListInstitutionsRequest struct {
	State      string   `form:"state"`
	MinScore   *int     `form:"minScore"`
	MinCredits *float64 `form:"minCredits"`
	MinExams   *int     `form:"minExams"`
	Exam       []string `form:"exam"`
	Name       string   `form:"name"`
	SortBy     string   `form:"sortBy"`
	Page       int      `form:"page"`
	PageSize   int      `form:"pageSize"`
}

// InstitutionListResponse represents a page of institutions
type InstitutionListResponse struct {
	Institutions []*models.Institution `json:"institutions"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// ExamListResponse represents the exam catalog
type ExamListResponse struct {
	Exams []string `json:"exams"`
}

// MapMarkerResponse represents one institution pin for the map view
type MapMarkerResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	State         string  `json:"state"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	ExamsAccepted int     `json:"examsAccepted"`
}
