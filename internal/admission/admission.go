// Package admission tracks which card ids are claimed, by whom, and which
// join requests are waiting for operator approval. It is plain data owned by
// the session actor; serialization comes from the actor, not from locks here.
package admission

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoCards        = errors.New("no valid card ids requested")
	ErrUnknownPending = errors.New("pending request not found")
	ErrUnknownPlayer  = errors.New("player not found")
)

// ConflictError names the specific card ids that are already claimed.
type ConflictError struct {
	CardIDs []int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cards already in use: %v", e.CardIDs)
}

// OutOfRangeError names the card ids outside [1, pool].
type OutOfRangeError struct {
	CardIDs []int
	Pool    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cards %v outside pool [1,%d]", e.CardIDs, e.Pool)
}

// Binding is an approved identity with the card ids it holds.
type Binding struct {
	Identity string
	CardIDs  []int
}

// Pending is a join request awaiting operator review.
type Pending struct {
	ID        string
	Identity  string
	CardIDs   []int
	Requested time.Time
}

// Controller owns the claimed-card set, the approved bindings and the pending
// queue. Bindings and pending requests keep their arrival order: the winner
// scan and the operator review list both depend on it being stable.
type Controller struct {
	pool     int
	claimed  map[int]string     // card id -> identity
	bindings map[string][]int   // identity -> card ids
	order    []string           // identities in join order
	pending  map[string]Pending // pending id -> request
	queue    []string           // pending ids in arrival order
}

func NewController(pool int) *Controller {
	return &Controller{
		pool:     pool,
		claimed:  make(map[int]string),
		bindings: make(map[string][]int),
		pending:  make(map[string]Pending),
	}
}

// Pool returns the card pool bound.
func (c *Controller) Pool() int { return c.pool }

// Claimed reports whether a card id is bound to an approved player.
func (c *Controller) Claimed(id int) bool {
	_, ok := c.claimed[id]
	return ok
}

// ClaimedCount returns how many cards are currently bound.
func (c *Controller) ClaimedCount() int { return len(c.claimed) }

// ClaimedIDs returns the bound card ids, sorted.
func (c *Controller) ClaimedIDs() []int {
	ids := make([]int, 0, len(c.claimed))
	for id := range c.claimed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c *Controller) validate(cardIDs []int) error {
	if len(cardIDs) == 0 {
		return ErrNoCards
	}
	var outOfRange, taken []int
	for _, id := range cardIDs {
		if id < 1 || id > c.pool {
			outOfRange = append(outOfRange, id)
		} else if c.Claimed(id) {
			taken = append(taken, id)
		}
	}
	if len(outOfRange) > 0 {
		return &OutOfRangeError{CardIDs: outOfRange, Pool: c.pool}
	}
	if len(taken) > 0 {
		return &ConflictError{CardIDs: taken}
	}
	if dup := firstDuplicate(cardIDs); dup != 0 {
		return &ConflictError{CardIDs: []int{dup}}
	}
	return nil
}

func firstDuplicate(ids []int) int {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return 0
}

// RequestJoin enqueues a join request for operator review. It rejects
// immediately if any requested card is out of range or already claimed, so an
// obviously doomed request never sits in the queue.
func (c *Controller) RequestJoin(identity string, cardIDs []int) (Pending, error) {
	if err := c.validate(cardIDs); err != nil {
		return Pending{}, err
	}
	p := Pending{
		ID:        uuid.NewString(),
		Identity:  identity,
		CardIDs:   slices.Clone(cardIDs),
		Requested: time.Now(),
	}
	c.pending[p.ID] = p
	c.queue = append(c.queue, p.ID)
	return p, nil
}

// Approve claims the request's cards and binds them to its identity. Cards
// are re-validated here: another approval may have claimed one of them while
// this request sat in the queue. On conflict the entry is removed and the
// colliding ids are reported; nothing is claimed.
func (c *Controller) Approve(pendingID string) (Binding, error) {
	p, ok := c.pending[pendingID]
	if !ok {
		return Binding{}, ErrUnknownPending
	}
	c.removePending(pendingID)
	if err := c.validate(p.CardIDs); err != nil {
		return Binding{}, err
	}
	return c.bind(p.Identity, p.CardIDs), nil
}

// Reject removes a pending request without touching the claimed set.
func (c *Controller) Reject(pendingID string) (Pending, error) {
	p, ok := c.pending[pendingID]
	if !ok {
		return Pending{}, ErrUnknownPending
	}
	c.removePending(pendingID)
	return p, nil
}

// AddDirect binds cards to an identity without going through the queue
// (operator add-player command). Same validation as an approval.
func (c *Controller) AddDirect(identity string, cardIDs []int) (Binding, error) {
	if err := c.validate(cardIDs); err != nil {
		return Binding{}, err
	}
	return c.bind(identity, cardIDs), nil
}

func (c *Controller) bind(identity string, cardIDs []int) Binding {
	for _, id := range cardIDs {
		c.claimed[id] = identity
	}
	if _, known := c.bindings[identity]; !known {
		c.order = append(c.order, identity)
	}
	c.bindings[identity] = append(c.bindings[identity], cardIDs...)
	return Binding{Identity: identity, CardIDs: slices.Clone(c.bindings[identity])}
}

// Release frees every card bound to identity. Used by kick and full reset
// only; a transient disconnect keeps the binding so the player can reconnect
// to the same cards.
func (c *Controller) Release(identity string) ([]int, error) {
	cards, ok := c.bindings[identity]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	for _, id := range cards {
		delete(c.claimed, id)
	}
	delete(c.bindings, identity)
	c.order = slices.DeleteFunc(c.order, func(s string) bool { return s == identity })
	return cards, nil
}

// Verify reports whether every presented card id is still bound to identity.
// This is the reconnection gate.
func (c *Controller) Verify(identity string, cardIDs []int) bool {
	if len(cardIDs) == 0 {
		return false
	}
	for _, id := range cardIDs {
		if c.claimed[id] != identity {
			return false
		}
	}
	return true
}

// Bindings returns all approved bindings in join order. Winner detection
// iterates this, so the order must be stable between calls.
func (c *Controller) Bindings() []Binding {
	out := make([]Binding, 0, len(c.order))
	for _, identity := range c.order {
		out = append(out, Binding{Identity: identity, CardIDs: slices.Clone(c.bindings[identity])})
	}
	return out
}

// Binding returns the approved binding for identity, if any.
func (c *Controller) Binding(identity string) (Binding, bool) {
	cards, ok := c.bindings[identity]
	if !ok {
		return Binding{}, false
	}
	return Binding{Identity: identity, CardIDs: slices.Clone(cards)}, true
}

// Pending returns a queued request without removing it.
func (c *Controller) Pending(id string) (Pending, bool) {
	p, ok := c.pending[id]
	return p, ok
}

// PendingList returns pending requests in arrival order.
func (c *Controller) PendingList() []Pending {
	out := make([]Pending, 0, len(c.queue))
	for _, id := range c.queue {
		out = append(out, c.pending[id])
	}
	return out
}

// Reset drops every binding and pending request.
func (c *Controller) Reset() {
	c.claimed = make(map[int]string)
	c.bindings = make(map[string][]int)
	c.order = nil
	c.pending = make(map[string]Pending)
	c.queue = nil
}

// Restore rebuilds the claimed set and bindings from a persisted roster at
// startup. Later bindings lose collisions to earlier ones; the survivors are
// reported back so the caller can log what was dropped.
func (c *Controller) Restore(bindings []Binding) (dropped []Binding) {
	for _, b := range bindings {
		if _, err := c.AddDirect(b.Identity, b.CardIDs); err != nil {
			dropped = append(dropped, b)
		}
	}
	return dropped
}

func (c *Controller) removePending(id string) {
	delete(c.pending, id)
	c.queue = slices.DeleteFunc(c.queue, func(s string) bool { return s == id })
}
