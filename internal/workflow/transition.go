package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buildright/matreq/internal/model"
)

// StatusUpdater applies a confirmed status change to a stored request.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, companyID, id, status string) error
}

var (
	// ErrNoOpTransition rejects a proposal whose new status equals the
	// current one, before any confirmation artifact is created.
	ErrNoOpTransition = errors.New("status unchanged")

	// ErrUnknownStatus rejects a proposal naming a status outside the
	// four-value enumeration.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrNoSuchProposal means the proposal was never created, already
	// confirmed, or cancelled.
	ErrNoSuchProposal = errors.New("no such proposal")
)

// Proposal is a pending status change awaiting confirmation. It exists only
// in memory; nothing is persisted until Confirm succeeds.
type Proposal struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id"`
	CurrentStatus string    `json:"current_status"`
	NewStatus     string    `json:"new_status"`
	MaterialName  string    `json:"material_name"`
	ProposedAt    time.Time `json:"proposed_at"`

	companyID string
}

// Transitions implements the two-phase status change protocol:
// propose creates a confirmation artifact, confirm applies it through the
// store, cancel discards it without any store interaction. All transitions
// between distinct statuses are legal; there is no terminal state.
type Transitions struct {
	store StatusUpdater

	mu      sync.Mutex
	pending map[string]*Proposal
}

// NewTransitions creates a transition registry over the given store.
func NewTransitions(store StatusUpdater) *Transitions {
	return &Transitions{
		store:   store,
		pending: make(map[string]*Proposal),
	}
}

// Propose registers a pending status change and returns the confirmation
// artifact. A proposal whose new status equals the current one is rejected
// with ErrNoOpTransition and leaves no artifact behind.
func (t *Transitions) Propose(companyID, requestID, current, next, materialName string) (*Proposal, error) {
	if !model.ValidStatus(current) || !model.ValidStatus(next) {
		return nil, ErrUnknownStatus
	}
	if next == current {
		return nil, ErrNoOpTransition
	}

	p := &Proposal{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		CurrentStatus: current,
		NewStatus:     next,
		MaterialName:  materialName,
		ProposedAt:    time.Now().UTC(),
		companyID:     companyID,
	}

	t.mu.Lock()
	t.pending[p.ID] = p
	t.mu.Unlock()
	return p, nil
}

// Confirm applies a pending proposal through the store. The artifact is
// discarded only on success; on failure it stays registered so the caller
// can retry or cancel. A proposal belonging to another company is
// indistinguishable from a missing one.
func (t *Transitions) Confirm(ctx context.Context, companyID, proposalID string) (*Proposal, error) {
	t.mu.Lock()
	p, ok := t.pending[proposalID]
	t.mu.Unlock()
	if !ok || p.companyID != companyID {
		return nil, ErrNoSuchProposal
	}

	if err := t.store.UpdateStatus(ctx, p.companyID, p.RequestID, p.NewStatus); err != nil {
		return nil, err
	}

	t.mu.Lock()
	delete(t.pending, proposalID)
	t.mu.Unlock()
	return p, nil
}

// Cancel discards a pending proposal without touching the store. Returns
// ErrNoSuchProposal when no such artifact exists in the caller's company.
func (t *Transitions) Cancel(companyID, proposalID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.pending[proposalID]
	if !ok || p.companyID != companyID {
		return ErrNoSuchProposal
	}
	delete(t.pending, proposalID)
	return nil
}

// Pending returns the proposal with the given ID, or nil.
func (t *Transitions) Pending(proposalID string) *Proposal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending[proposalID]
}
