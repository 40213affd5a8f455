package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"election-portal/constants"
	"election-portal/models/member"

	"gorm.io/gorm"
)

// Credential-phase errors. Attempt counters persist across CodeMismatch
// failures by design; everything else evicts the pending entry.
var (
	ErrUnknownIdentity   = errors.New("no eligible member with this phone number")
	ErrNoActiveChallenge = errors.New("no code has been requested for this phone number")
	ErrChallengeExpired  = errors.New("the code has expired, request a new one")
	ErrTooManyAttempts   = errors.New("too many failed attempts, request a new code")
	ErrCodeMismatch      = errors.New("the code does not match")
	ErrDeliveryFailed    = errors.New("failed to deliver the code")
)

// Sender delivers a one-time code through the outbound message channel.
type Sender interface {
	SendCode(phone, code string) error
}

// credential is a pending one-time challenge. It lives only in process
// memory; the record store never sees it.
type credential struct {
	code      string
	memberID  uint
	expiresAt time.Time
	attempts  int
}

// Service issues and verifies one-time codes. Expiry and attempt exhaustion
// are enforced at verification time rather than by a background sweep: the
// live set is small and bounded by the TTL.
type Service struct {
	db     *gorm.DB
	sender Sender
	ttl    time.Duration

	mu      sync.Mutex
	pending map[string]*credential // keyed by phone
}

func NewService(db *gorm.DB, sender Sender, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = constants.OTPDefaultTTL
	}
	return &Service{
		db:      db,
		sender:  sender,
		ttl:     ttl,
		pending: make(map[string]*credential),
	}
}

// generateCode returns a random fixed-length numeric code.
func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", constants.OTPCodeLength, n.Int64()), nil
}

// RequestCode looks up an eligible member by phone, stores a fresh pending
// credential (replacing any previous one) and dispatches the code. The code
// itself never appears in the return value. A delivery failure evicts the
// credential so the member is not left with a code they never received.
func (s *Service) RequestCode(phone string) error {
	var m member.Member
	err := s.db.Where("phone = ? AND is_eligible = ?", phone, true).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownIdentity
		}
		return fmt.Errorf("failed to look up member: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	s.mu.Lock()
	s.pending[phone] = &credential{
		code:      code,
		memberID:  m.ID,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	if err := s.sender.SendCode(phone, code); err != nil {
		s.mu.Lock()
		delete(s.pending, phone)
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}

// ResendCode replaces any pending credential with a fresh one; the old code
// is invalidated.
func (s *Service) ResendCode(phone string) error {
	return s.RequestCode(phone)
}

// VerifyCode checks a submitted code against the pending credential. On a
// match the credential is evicted and the member id returned. A mismatch
// keeps the entry alive (attempts already counted) until the cap or the TTL
// is hit; once the counter has reached the cap even the correct code fails.
func (s *Service) VerifyCode(phone, code string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.pending[phone]
	if !ok {
		return 0, ErrNoActiveChallenge
	}

	if time.Now().After(cred.expiresAt) {
		delete(s.pending, phone)
		return 0, ErrChallengeExpired
	}

	if cred.attempts >= constants.OTPMaxAttempts {
		delete(s.pending, phone)
		return 0, ErrTooManyAttempts
	}

	if cred.code != code {
		cred.attempts++
		if cred.attempts >= constants.OTPMaxAttempts {
			return 0, ErrTooManyAttempts
		}
		return 0, ErrCodeMismatch
	}

	delete(s.pending, phone)
	return cred.memberID, nil
}

// PendingCount reports the number of live credentials.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
