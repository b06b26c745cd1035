// Package session keeps the live state of each storefront session: its cart, removals
// awaiting confirmation, the open order confirmation and the menu scroll tracker.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/scroll"
)

var (
	ErrPendingNotFound = errors.New("pending removal not found")
	ErrNoOpenOrder     = errors.New("no open order")
)

// CartView is what the cart screen renders.
type CartView struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

// Session serializes every operation on one session's state. HTTP handlers for the same
// session may run concurrently; the cart itself assumes a single writer.
type Session struct {
	ID string

	mu      sync.Mutex
	cart    *cart.Cart
	pending map[string]cart.PendingRemoval
	current *order.Order
	tracker *scroll.Tracker
	sticky  scroll.Sticky
	frame   time.Duration
	closed  bool

	// guarded by Manager.mu
	lastUsed time.Time
}

func newSession(id string, c *cart.Cart, frame time.Duration) *Session {
	return &Session{ID: id, cart: c, pending: make(map[string]cart.PendingRemoval), frame: frame}
}

func (s *Session) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() CartView {
	lines := s.cart.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartView{Lines: lines, Totals: s.cart.Totals()}
}

func (s *Session) Add(ctx context.Context, item cart.Line) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.AddOrIncrement(ctx, item); err != nil {
		return CartView{}, err
	}
	s.release(item.ProductID, item.VariantLabel)
	return s.view(), nil
}

// SetQuantity returns a non-nil PendingRemoval when n is zero.
func (s *Session) SetQuantity(ctx context.Context, productID, variant string, n int) (CartView, *cart.PendingRemoval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.cart.SetQuantity(ctx, productID, variant, n)
	if err != nil {
		return CartView{}, nil, err
	}
	s.settle(productID, variant, p)
	return s.view(), p, nil
}

func (s *Session) Increment(ctx context.Context, productID, variant string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.Increment(ctx, productID, variant); err != nil {
		return CartView{}, err
	}
	s.release(productID, variant)
	return s.view(), nil
}

func (s *Session) Decrement(ctx context.Context, productID, variant string) (CartView, *cart.PendingRemoval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.cart.Decrement(ctx, productID, variant)
	if err != nil {
		return CartView{}, nil, err
	}
	s.settle(productID, variant, p)
	return s.view(), p, nil
}

func (s *Session) RequestRemoval(productID, variant string) cart.PendingRemoval {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.cart.RequestRemoval(productID, variant)
	s.hold(&p)
	return p
}

func (s *Session) ConfirmRemoval(ctx context.Context, id string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return CartView{}, ErrPendingNotFound
	}
	if err := s.cart.Confirm(ctx, p); err != nil {
		return CartView{}, err
	}
	delete(s.pending, id)
	return s.view(), nil
}

func (s *Session) CancelRemoval(id string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return CartView{}, ErrPendingNotFound
	}
	s.cart.Cancel(p)
	delete(s.pending, id)
	return s.view(), nil
}

// hold keeps at most one pending removal per line; a newer request replaces the older one.
func (s *Session) hold(p *cart.PendingRemoval) {
	if p == nil {
		return
	}
	s.release(p.ProductID, p.VariantLabel)
	s.pending[p.ID] = *p
}

// settle records p, or voids held removals for the line when its quantity changed instead.
func (s *Session) settle(productID, variant string, p *cart.PendingRemoval) {
	if p == nil {
		s.release(productID, variant)
		return
	}
	s.hold(p)
}

// release drops removals awaiting confirmation for a line that has changed since.
func (s *Session) release(productID, variant string) {
	for id, old := range s.pending {
		if old.ProductID == productID && old.VariantLabel == variant {
			s.cart.Cancel(old)
			delete(s.pending, id)
		}
	}
}

// Checkout snapshots the cart into the open order confirmation.
func (s *Session) Checkout(gen order.NumberGenerator, now time.Time) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := order.Checkout(s.cart, gen, now)
	if err != nil {
		return order.Order{}, err
	}
	s.current = &o
	return o, nil
}

func (s *Session) CurrentOrder() (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return order.Order{}, false
	}
	return *s.current, true
}

// CloseOrder empties the cart and discards the open order.
func (s *Session) CloseOrder(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoOpenOrder
	}
	if err := order.CloseConfirmation(ctx, s.cart, *s.current); err != nil {
		return err
	}
	s.current = nil
	clear(s.pending)
	return nil
}

// Track feeds a scroll observation to the session's tracker, starting it on first use.
func (s *Session) Track(v scroll.Viewport) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.tracker == nil {
		s.tracker = scroll.NewTracker(s.frame, nil)
	}
	t := s.tracker
	s.mu.Unlock()
	t.Notify(v)
}

// ActiveCategory is the tracker's latest answer, empty before the first evaluated frame.
func (s *Session) ActiveCategory() string {
	s.mu.Lock()
	t := s.tracker
	s.mu.Unlock()
	if t == nil {
		return ""
	}
	return t.Active()
}

// Sticky updates the selector pin state for a layout observation. The threshold follows
// the viewport width.
func (s *Session) Sticky(wrapperTop, selectorHeight, viewportWidth float64) scroll.StickyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sticky.Threshold = scroll.ThresholdFor(viewportWidth)
	return s.sticky.Update(wrapperTop, selectorHeight)
}

// reload replaces the cart with the stored one. Held removals refer to lines that may have
// changed, so they are dropped.
func (s *Session) reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.Reload(ctx); err != nil {
		return err
	}
	clear(s.pending)
	return nil
}

func (s *Session) close() {
	s.mu.Lock()
	t := s.tracker
	s.tracker = nil
	s.closed = true
	s.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}
