package models

// VoteDirection is an up or down vote on an (institution, exam) pair.
type VoteDirection string

// Vote directions.
const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two known values.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// VoteCounts aggregates feedback for one exam across institutions.
type VoteCounts struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}
