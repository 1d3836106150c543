package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclep/clepfinder/internal/app/models"
)

func TestVoteRecordsDirection(t *testing.T) {
	svc := NewFeedbackService()

	dir, err := svc.Vote(1, "Biology", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUp, dir)

	counts, err := svc.CountsFor("Biology")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Up: 1, Down: 0}, counts)
}

func TestVoteSameDirectionTogglesOff(t *testing.T) {
	svc := NewFeedbackService()

	_, err := svc.Vote(1, "Biology", models.VoteUp)
	require.NoError(t, err)
	dir, err := svc.Vote(1, "Biology", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteDirection(""), dir)

	counts, err := svc.CountsFor("Biology")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{}, counts)
}

func TestVoteOppositeDirectionReplaces(t *testing.T) {
	svc := NewFeedbackService()

	_, err := svc.Vote(1, "Biology", models.VoteUp)
	require.NoError(t, err)
	dir, err := svc.Vote(1, "Biology", models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteDown, dir)

	counts, err := svc.CountsFor("Biology")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Up: 0, Down: 1}, counts)
}

func TestVoteCountsSpanInstitutions(t *testing.T) {
	svc := NewFeedbackService()

	_, err := svc.Vote(1, "Biology", models.VoteUp)
	require.NoError(t, err)
	_, err = svc.Vote(2, "Biology", models.VoteUp)
	require.NoError(t, err)
	_, err = svc.Vote(3, "Biology", models.VoteDown)
	require.NoError(t, err)
	_, err = svc.Vote(1, "Chemistry", models.VoteDown)
	require.NoError(t, err)

	counts, err := svc.CountsFor("Biology")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCounts{Up: 2, Down: 1}, counts)
}

func TestVoteRejectsBadInput(t *testing.T) {
	svc := NewFeedbackService()

	_, err := svc.Vote(1, "Biology", "sideways")
	assert.Error(t, err)

	_, err = svc.Vote(1, "Not A Real Exam", models.VoteUp)
	assert.Error(t, err)

	_, err = svc.CountsFor("Not A Real Exam")
	assert.Error(t, err)
}
