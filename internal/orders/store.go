package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joao-fontenele/produce-storefront/internal/domain"
)

// IDPrefix precedes the zero-padded sequence number of every order id.
const IDPrefix = "ORD-2023-"

// AllStatuses is the status filter value that matches every order.
const AllStatuses = "ALL"

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderStore holds the order collection in memory. It is safe for
// concurrent use; every order it returns is a copy.
type OrderStore struct {
	mu     sync.RWMutex
	orders []domain.Order
	seq    int
	now    func() time.Time
}

// NewOrderStore returns a store holding seed. Newly created orders continue
// the sequence after the highest id found in seed.
func NewOrderStore(seed []domain.Order) *OrderStore {
	s := &OrderStore{
		orders: make([]domain.Order, 0, len(seed)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, o := range seed {
		s.orders = append(s.orders, o.Clone())
		if n, ok := parseSequence(o.ID); ok && n > s.seq {
			s.seq = n
		}
	}
	return s
}

func parseSequence(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, IDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatID(seq int) string {
	return fmt.Sprintf("%s%03d", IDPrefix, seq)
}

// Create assigns order a fresh id and creation time, forces it to PENDING
// and appends it. order is updated in place.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	order.ID = formatID(s.seq)
	order.Status = domain.OrderStatusPending
	order.CreatedAt = s.now()

	s.orders = append(s.orders, order.Clone())
	return nil
}

// GetByID returns the order with exactly id, or nil if there is none.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	order := s.orders[i].Clone()
	return &order, nil
}

// StatusChange is the result of a successful status update.
type StatusChange struct {
	Order domain.Order
	From  domain.OrderStatus
}

// UpdateStatus moves the order to status, replacing nothing but its status.
// It returns nil if no order has that id. Only forward moves along the
// pipeline are accepted.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*StatusChange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}

	from := s.orders[i].Status
	if !from.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, status)
	}

	s.orders[i].Status = status
	return &StatusChange{Order: s.orders[i].Clone(), From: from}, nil
}

func (s *OrderStore) List(ctx context.Context) ([]domain.Order, error) {
	return s.Search(ctx, "", AllStatuses)
}

// Search returns the orders whose id or buyer name contains query
// (case-insensitive) and whose status is status, in creation order.
func (s *OrderStore) Search(ctx context.Context, query, status string) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []domain.Order{}
	for _, o := range s.orders {
		matchesSearch := strings.Contains(strings.ToLower(o.ID), q) ||
			strings.Contains(strings.ToLower(o.BuyerName), q)
		matchesStatus := status == AllStatuses || string(o.Status) == status
		if matchesSearch && matchesStatus {
			orders = append(orders, o.Clone())
		}
	}
	return orders, nil
}

func (s *OrderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *OrderStore) indexOf(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
