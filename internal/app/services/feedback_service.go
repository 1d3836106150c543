package services

import (
	"sync"

	"github.com/openclep/clepfinder/internal/app/models"
	"github.com/openclep/clepfinder/internal/clep"
	"github.com/openclep/clepfinder/internal/pkg/apperrors"
)

// FeedbackService defines the interface for policy accuracy voting
type FeedbackService interface {
	Vote(institutionID int64, examName string, direction models.VoteDirection) (models.VoteDirection, error)
	CountsFor(examName string) (models.VoteCounts, error)
}

type voteKey struct {
	institutionID int64
	examName      string
}

// feedbackServiceImpl implements the FeedbackService interface. Votes
// live in process memory only; a restart clears the ledger.
type feedbackServiceImpl struct {
	mu    sync.Mutex
	votes map[voteKey]models.VoteDirection
}

// NewFeedbackService creates a new feedback service instance
func NewFeedbackService() FeedbackService {
	return &feedbackServiceImpl{
		votes: make(map[voteKey]models.VoteDirection),
	}
}

// Vote records a vote for (institution, exam). Voting the stored
// direction again removes the vote; voting the opposite direction
// replaces it. Returns the direction now stored, empty when removed.
func (s *feedbackServiceImpl) Vote(institutionID int64, examName string, direction models.VoteDirection) (models.VoteDirection, error) {
	if !direction.Valid() {
		return "", apperrors.NewValidationError("direction must be 'up' or 'down'")
	}
	if !clep.InCatalog(examName) {
		return "", apperrors.ErrUnknownExam
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := voteKey{institutionID: institutionID, examName: examName}
	if s.votes[key] == direction {
		delete(s.votes, key)
		return "", nil
	}
	s.votes[key] = direction
	return direction, nil
}

// CountsFor returns the up/down totals for one exam across institutions.
func (s *feedbackServiceImpl) CountsFor(examName string) (models.VoteCounts, error) {
	if !clep.InCatalog(examName) {
		return models.VoteCounts{}, apperrors.ErrUnknownExam
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var counts models.VoteCounts
	for key, dir := range s.votes {
		if key.examName != examName {
			continue
		}
		switch dir {
		case models.VoteUp:
			counts.Up++
		case models.VoteDown:
			counts.Down++
		}
	}
	return counts, nil
}
