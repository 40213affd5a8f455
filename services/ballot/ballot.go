package ballot

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	candidate_model "election-portal/models/candidate"
	member_model "election-portal/models/member"
	position_model "election-portal/models/position"
	vote_model "election-portal/models/vote"
	election_service "election-portal/services/election"
	vote_types "election-portal/types/vote"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrElectionNotActive = errors.New("the election is not active")
	ErrInvalidPosition   = errors.New("vote references an unknown or inactive position")
	ErrInvalidCandidate  = errors.New("vote references an unknown or inactive candidate for this position")
	ErrEmptyBallot       = errors.New("vote contains no choices")
)

// AlreadyVotedError is returned when a member who has already voted submits
// again; it carries the id of the existing vote.
type AlreadyVotedError struct {
	VoteID string
}

func (e *AlreadyVotedError) Error() string {
	return "this member has already voted"
}

// Service builds ballots, records votes and computes tallies. Vote
// submission is serialized per member: the check-then-append sequence runs
// inside a per-member critical section, and the unique index on
// votes.member_id backstops it at the storage level.
type Service struct {
	db       *gorm.DB
	election *election_service.Service

	mu          sync.Mutex
	memberLocks map[uint]*sync.Mutex
}

func NewService(db *gorm.DB, election *election_service.Service) *Service {
	return &Service{
		db:          db,
		election:    election,
		memberLocks: make(map[uint]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing submissions for one member.
func (s *Service) lockFor(memberID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.memberLocks[memberID]
	if !ok {
		l = &sync.Mutex{}
		s.memberLocks[memberID] = l
	}
	return l
}

// Ballot returns every active position populated with its active candidates.
// No tally data is exposed here.
func (s *Service) Ballot() ([]vote_types.BallotPosition, error) {
	var positions []position_model.Position
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	result := make([]vote_types.BallotPosition, 0, len(positions))
	for _, p := range positions {
		var candidates []candidate_model.Candidate
		if err := s.db.Where("position_id = ? AND is_active = ?", p.ID, true).
			Order("id").Find(&candidates).Error; err != nil {
			return nil, fmt.Errorf("failed to load candidates: %w", err)
		}

		bp := vote_types.BallotPosition{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Candidates:  make([]vote_types.BallotCandidate, 0, len(candidates)),
		}
		for _, c := range candidates {
			bp.Candidates = append(bp.Candidates, vote_types.BallotCandidate{
				ID:    c.ID,
				Name:  c.Name,
				Photo: c.Photo,
				Info:  c.Info,
			})
		}
		result = append(result, bp)
	}

	return result, nil
}

// HasVoted reports whether a vote exists for the member, with its id.
func (s *Service) HasVoted(memberID uint) (bool, string, error) {
	var v vote_model.Vote
	err := s.db.Where("member_id = ?", memberID).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("failed to look up vote: %w", err)
	}
	return true, v.ID, nil
}

// Submit validates and records one vote for the member. Validation order:
// election-active, already-voted, position-validity, candidate-validity —
// the cheapest and most common rejections first. The whole sequence runs
// inside the member's critical section.
func (s *Service) Submit(memberID uint, choices map[uint]uint) (string, error) {
	if len(choices) == 0 {
		return "", ErrEmptyBallot
	}

	l := s.lockFor(memberID)
	l.Lock()
	defer l.Unlock()

	active, err := s.election.IsActive()
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrElectionNotActive
	}

	voted, existingID, err := s.HasVoted(memberID)
	if err != nil {
		return "", err
	}
	if voted {
		return "", &AlreadyVotedError{VoteID: existingID}
	}

	for positionID, candidateID := range choices {
		var count int64
		if err := s.db.Model(&position_model.Position{}).
			Where("id = ? AND is_active = ?", positionID, true).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to validate position: %w", err)
		}
		if count == 0 {
			return "", ErrInvalidPosition
		}

		if err := s.db.Model(&candidate_model.Candidate{}).
			Where("id = ? AND position_id = ? AND is_active = ?", candidateID, positionID, true).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to validate candidate: %w", err)
		}
		if count == 0 {
			return "", ErrInvalidCandidate
		}
	}

	v := vote_model.Vote{
		ID:       uuid.NewString(),
		MemberID: memberID,
		CastAt:   time.Now(),
		Choices:  vote_model.ChoiceMap(choices),
	}
	if err := s.db.Create(&v).Error; err != nil {
		// The unique index on member_id is the storage-level backstop for
		// submissions racing in from separate processes.
		if isUniqueViolation(err) {
			_, id, lookupErr := s.HasVoted(memberID)
			if lookupErr == nil {
				return "", &AlreadyVotedError{VoteID: id}
			}
			return "", &AlreadyVotedError{}
		}
		return "", fmt.Errorf("failed to record vote: %w", err)
	}

	return v.ID, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Results computes per-candidate tallies for every active position by
// scanning all votes. Votes referencing since-deactivated candidates stay
// stored but are excluded from display. Winners are only determined once the
// election has ended: all candidates sharing a positive maximum are marked.
func (s *Service) Results(detailed bool) ([]vote_types.PositionResult, error) {
	st, err := s.election.Status()
	if err != nil {
		return nil, err
	}
	ended := st.Label() == "ended"

	var positions []position_model.Position
	if err := s.db.Where("is_active = ?", true).Order("id").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	var votes []vote_model.Vote
	if err := s.db.Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	results := make([]vote_types.PositionResult, 0, len(positions))
	for _, p := range positions {
		var candidates []candidate_model.Candidate
		if err := s.db.Where("position_id = ? AND is_active = ?", p.ID, true).
			Order("id").Find(&candidates).Error; err != nil {
			return nil, fmt.Errorf("failed to load candidates: %w", err)
		}

		tallies := make(map[uint]int, len(candidates))
		for _, c := range candidates {
			tallies[c.ID] = 0
		}

		for _, v := range votes {
			if chosen, ok := v.Choices[p.ID]; ok {
				if _, valid := tallies[chosen]; valid {
					tallies[chosen]++
				}
			}
		}

		maxVotes := 0
		for _, n := range tallies {
			if n > maxVotes {
				maxVotes = n
			}
		}

		pr := vote_types.PositionResult{
			ID:         p.ID,
			Name:       p.Name,
			Candidates: make([]vote_types.CandidateTally, 0, len(candidates)),
		}
		for _, c := range candidates {
			ct := vote_types.CandidateTally{
				ID:    c.ID,
				Name:  c.Name,
				Votes: tallies[c.ID],
				// A position with zero cast votes has no winner even after
				// the election ends; ties mark every max holder.
				IsWinner: ended && maxVotes > 0 && tallies[c.ID] == maxVotes,
			}
			if detailed {
				ct.Photo = c.Photo
			}
			pr.Candidates = append(pr.Candidates, ct)
		}
		results = append(results, pr)
	}

	return results, nil
}

// Dashboard composes the administrative overview: eligible-voter count,
// total votes, status label and results. The voter count is the total member
// count, not filtered by the eligibility flag, matching the participation
// denominator the rest of the system reports.
func (s *Service) Dashboard() (*vote_types.DashboardResponse, error) {
	st, err := s.election.Status()
	if err != nil {
		return nil, err
	}

	var memberCount int64
	if err := s.db.Model(&member_model.Member{}).Count(&memberCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	var voteCount int64
	if err := s.db.Model(&vote_model.Vote{}).Count(&voteCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	results, err := s.Results(false)
	if err != nil {
		return nil, err
	}

	return &vote_types.DashboardResponse{
		EligibleVoters: memberCount,
		TotalVotes:     voteCount,
		Status:         st.Label(),
		Results:        results,
	}, nil
}
