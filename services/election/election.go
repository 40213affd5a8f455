package election

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"election-portal/constants"
	election_model "election-portal/models/election"

	"gorm.io/gorm"
)

var (
	ErrAlreadyActive = errors.New("the election is already active")
	ErrNotActive     = errors.New("the election is not active")
	// ErrAlreadyEnded: an ended election cannot be restarted; Reset is the
	// only administrative path back to NotStarted.
	ErrAlreadyEnded = errors.New("the election has ended and cannot be restarted")
)

// Service owns the election-status singleton. Every transition and every
// status read runs under one process-wide lock so a concurrent start/stop
// pair can never produce an inconsistent {isActive, startTime, endTime}
// tuple.
type Service struct {
	db              *gorm.DB
	defaultDuration time.Duration

	mu sync.Mutex
}

func NewService(db *gorm.DB, defaultDuration time.Duration) *Service {
	if defaultDuration <= 0 {
		defaultDuration = constants.ElectionDefaultDuration
	}
	return &Service{db: db, defaultDuration: defaultDuration}
}

// load fetches the singleton, creating it with defaults if first-run seeding
// has not happened yet.
func (s *Service) load() (*election_model.Status, error) {
	var st election_model.Status
	err := s.db.First(&st, election_model.SingletonID).Error
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load election status: %w", err)
	}

	st = election_model.Status{
		ID:         election_model.SingletonID,
		IsActive:   false,
		DurationMs: s.defaultDuration.Milliseconds(),
	}
	if err := s.db.Create(&st).Error; err != nil {
		return nil, fmt.Errorf("failed to create election status: %w", err)
	}
	return &st, nil
}

func (s *Service) save(st *election_model.Status) error {
	if err := s.db.Save(st).Error; err != nil {
		return fmt.Errorf("failed to persist election status: %w", err)
	}
	return nil
}

// Start activates the election. A nil duration keeps the previously
// configured one. Fails when already active, and once ended stays ended
// until an explicit Reset.
func (s *Service) Start(duration *time.Duration) (*election_model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}

	if st.IsActive {
		return nil, ErrAlreadyActive
	}
	if st.EndTime != nil {
		return nil, ErrAlreadyEnded
	}

	now := time.Now()
	st.IsActive = true
	st.StartTime = &now
	st.EndTime = nil
	if duration != nil {
		st.DurationMs = duration.Milliseconds()
	}

	if err := s.save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Stop ends an active election.
func (s *Service) Stop() (*election_model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}

	if !st.IsActive {
		return nil, ErrNotActive
	}

	now := time.Now()
	st.IsActive = false
	st.EndTime = &now

	if err := s.save(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Status returns the current state, auto-closing an active election whose
// duration has elapsed. The close is detected lazily on read, not by a
// timer.
func (s *Service) Status() (*election_model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}

	if st.IsActive {
		if deadline, ok := st.Deadline(); ok && !time.Now().Before(deadline) {
			st.IsActive = false
			st.EndTime = &deadline
			if err := s.save(st); err != nil {
				return nil, err
			}
		}
	}

	return st, nil
}

// IsActive is the submission-time gate used by the vote ledger: it re-checks
// (and lazily auto-closes) rather than trusting an earlier read.
func (s *Service) IsActive() (bool, error) {
	st, err := s.Status()
	if err != nil {
		return false, err
	}
	return st.IsActive, nil
}

// Remaining floor-divides the time left in the active window into hours and
// minutes. Zero for anything other than a running election.
func (s *Service) Remaining(st *election_model.Status) (hours, minutes int64) {
	if !st.IsActive {
		return 0, 0
	}
	deadline, ok := st.Deadline()
	if !ok {
		return 0, 0
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, 0
	}
	total := int64(left / time.Minute)
	return total / 60, total % 60
}

// Reset clears the singleton back to NotStarted. This is the administrative
// action that makes a new election possible after one has ended; stored
// votes are untouched.
func (s *Service) Reset() (*election_model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}

	st.IsActive = false
	st.StartTime = nil
	st.EndTime = nil
	st.DurationMs = s.defaultDuration.Milliseconds()

	if err := s.save(st); err != nil {
		return nil, err
	}
	return st, nil
}
