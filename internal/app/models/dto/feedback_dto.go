package dto

// VoteRequest represents one up/down vote on an institution's exam policy
type VoteRequest struct {
	InstitutionID int64  `json:"institutionId" binding:"required"`
	ExamName      string `json:"examName" binding:"required"`
	Direction     string `json:"direction" binding:"required" enums:"up,down"`
}

// VoteResponse reports the voter's state for the pair after the vote.
// Direction is empty when the vote toggled off.
type VoteResponse struct {
	InstitutionID int64  `json:"institutionId"`
	ExamName      string `json:"examName"`
	Direction     string `json:"direction"`
}

// VoteCountsResponse represents aggregate vote counts for one exam
type VoteCountsResponse struct {
	ExamName string `json:"examName"`
	Up       int    `json:"up"`
	Down     int    `json:"down"`
}
