package card

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RealNoorMuhammad/nfcpay/internal/domain"
	"github.com/RealNoorMuhammad/nfcpay/internal/gateway"
	"github.com/RealNoorMuhammad/nfcpay/internal/observability"
	"github.com/RealNoorMuhammad/nfcpay/internal/service"
)

var (
	ErrSessionNotFound = errors.New("deposit session not found or expired")
)

// the counterparty label deposits are journaled under, as in the original demo
const depositSource = "Visa Card"

// session is one pending card deposit. It lives from form submission until
// commit, cancellation, or expiry, and remembers whether the scripted
// network failure has already been served.
type session struct {
	id        uuid.UUID
	amount    decimal.Decimal
	attempts  int
	result    *service.Result
	createdAt time.Time
}

// Service owns deposit sessions and the demo-only fail-first policy: when
// enabled, the first submission of every session fails with a scripted
// network error after the simulated delay, and only a retry can commit.
type Service struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*session
	orch      *service.Orchestrator
	gateway   gateway.Gateway
	maxAmount decimal.Decimal
	failFirst bool
	ttl       time.Duration
	now       func() time.Time
}

func NewService(orch *service.Orchestrator, gw gateway.Gateway, maxAmount decimal.Decimal, failFirst bool, ttl time.Duration) *Service {
	return &Service{
		sessions:  make(map[uuid.UUID]*session),
		orch:      orch,
		gateway:   gw,
		maxAmount: maxAmount,
		failFirst: failFirst,
		ttl:       ttl,
		now:       time.Now,
	}
}

// CreateSession validates the card form and amount and registers a pending
// deposit. Nothing touches the ledger or journal yet.
func (s *Service) CreateSession(details Details, amount decimal.Decimal) (uuid.UUID, error) {
	if err := details.Validate(s.now()); err != nil {
		return uuid.Nil, err
	}
	if err := domain.ValidateAmount(amount, s.maxAmount); err != nil {
		return uuid.Nil, err
	}

	sess := &session{
		id:        uuid.New(),
		amount:    amount,
		createdAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess.id, nil
}

// Submit processes one attempt of a pending deposit. Under the fail-first
// policy the first attempt spends the simulated round-trip and then fails
// with ErrNetworkUnavailable, leaving the ledger and journal untouched. A
// later attempt commits through the orchestrator. Once committed, further
// submits replay the stored result instead of crediting again.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*service.Result, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.result != nil {
		res := sess.result
		s.mu.Unlock()
		observability.IncrementDepositRetry("replayed")
		return res, nil
	}
	sess.attempts++
	attempt := sess.attempts
	amount := sess.amount
	s.mu.Unlock()

	if s.failFirst && attempt == 1 {
		// Spend the round-trip before failing, like the original form.
		if err := s.gateway.Process(ctx, domain.FlowDeposit); err != nil {
			return nil, err
		}
		observability.IncrementDepositRetry("scripted_failure")
		return nil, domain.ErrNetworkUnavailable
	}

	result, err := s.orch.Deposit(ctx, depositSource, amount)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if current, still := s.sessions[id]; still {
		current.result = result
	}
	s.mu.Unlock()

	observability.IncrementDepositRetry("committed")
	return result, nil
}

// Cancel discards a pending deposit, e.g. when the form is dismissed. A
// session that already committed keeps its journal entry; cancellation only
// prevents future submits.
func (s *Service) Cancel(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SweepExpired drops sessions older than the TTL and reports how many went.
func (s *Service) SweepExpired() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.createdAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// PendingCount reports the number of live sessions.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
