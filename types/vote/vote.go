package vote

// SubmitVoteRequest maps position id to the chosen candidate id.
type SubmitVoteRequest struct {
	Votes map[uint]uint `json:"votes" validate:"required"`
}

// SubmitVoteResponse returns the generated vote id.
type SubmitVoteResponse struct {
	VoteID string `json:"vote_id"`
}

// BallotCandidate is a candidate as shown to a voter: no tally data.
type BallotCandidate struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
	Info  string `json:"info,omitempty"`
}

// BallotPosition is an active position with its active candidates.
type BallotPosition struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Candidates  []BallotCandidate `json:"candidates"`
}

// CandidateTally is one candidate's count within a position result. IsWinner
// is only ever set once the election has ended.
type CandidateTally struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Photo    string `json:"photo,omitempty"`
	Votes    int    `json:"votes"`
	IsWinner bool   `json:"is_winner"`
}

// PositionResult is the tally for one position.
type PositionResult struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	Candidates []CandidateTally `json:"candidates"`
}

// DashboardResponse composes the administrative overview.
type DashboardResponse struct {
	EligibleVoters int64            `json:"eligible_voters"`
	TotalVotes     int64            `json:"total_votes"`
	Status         string           `json:"status"`
	Results        []PositionResult `json:"results"`
}
