package order

import (
	"context"
	"errors"
	"strings"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	"foodorder/internal/logging"
	"foodorder/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checking out a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type cartService interface {
	Get(ctx context.Context, userID string) (cart.State, error)
	ClearIfVersion(ctx context.Context, userID string, version uint64) (cart.State, bool, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Service struct {
	repo   orderRepo
	carts  cartService
	users  userRepo
	newID  func() string
	logger *zap.SugaredLogger
}

func New(repo orderRepo, carts cartService, users userRepo, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   repo,
		carts:  carts,
		users:  users,
		newID:  uuid.NewString,
		logger: logging.OrNop(logger),
	}
}

// CheckoutInput is what the customer adds to the cart snapshot.
type CheckoutInput struct {
	Type    string              `json:"type"`
	Details domain.OrderDetails `json:"details"`
}

// SubmitInput is an order built by the client from its own cart snapshot.
type SubmitInput struct {
	UserID   string              `json:"userId"`
	UserName string              `json:"userName"`
	Type     string              `json:"type"`
	Items    []domain.OrderLine  `json:"items"`
	Details  domain.OrderDetails `json:"details"`
}

// Submit records a client-built order. The totals are recomputed from the
// lines; identical lines are merged.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Order, error) {
	details, err := validateDetails(in.Type, in.Details)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "at least one item is required")
	}
	lines := make([]cart.LineItem, 0, len(in.Items))
	for _, l := range in.Items {
		line, err := lineFromOrder(l)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	snap := cart.FromItems(lines)
	for _, l := range snap.Items {
		if l.Quantity > domain.MaxLineQuantity {
			return nil, domain.Invalid("items.quantity", "%s: at most %d per line", l.ID, domain.MaxLineQuantity)
		}
	}
	return s.place(ctx, strings.TrimSpace(in.UserID), strings.TrimSpace(in.UserName), in.Type, snap, details)
}

// Checkout turns the user's cart into an order and empties the cart. If the
// cart changed while the order was being stored, the newer cart is kept.
func (s *Service) Checkout(ctx context.Context, userID string, in CheckoutInput) (*domain.Order, error) {
	details, err := validateDetails(in.Type, in.Details)
	if err != nil {
		return nil, err
	}
	snap, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap.IsEmpty() {
		return nil, ErrEmptyCart
	}

	var userName string
	if s.users != nil {
		u, err := s.users.GetByID(ctx, userID)
		switch {
		case err == nil:
			userName = u.Name
			if details.Phone == "" {
				details.Phone = u.Phone
			}
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, err
		}
	}

	o, err := s.place(ctx, userID, userName, in.Type, snap, details)
	if err != nil {
		return nil, err
	}
	if _, cleared, err := s.carts.ClearIfVersion(ctx, userID, snap.Version); err != nil {
		s.logger.Warnf("order service: clear cart user_id=%s order_id=%s error=%v", userID, o.ID, err)
	} else if !cleared {
		s.logger.Infof("order service: cart changed during checkout user_id=%s order_id=%s", userID, o.ID)
	}
	return o, nil
}

func (s *Service) place(ctx context.Context, userID, userName, orderType string, snap cart.State, details domain.OrderDetails) (*domain.Order, error) {
	o := domain.Order{
		ID:         s.newID(),
		UserID:     userID,
		UserName:   userName,
		Type:       orderType,
		Items:      orderLines(snap),
		TotalCents: snap.TotalPriceCents,
		TotalItems: snap.TotalItems,
		Details:    details,
		Status:     domain.OrderStatusPending,
	}
	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	metrics.OrderPlaced(created.Type, created.TotalCents)
	s.logger.Infof("order service: placed id=%s user_id=%s type=%s total_cents=%d", created.ID, created.UserID, created.Type, created.TotalCents)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return domain.Invalid("status", "unknown order status %q", status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// validateDetails checks the contact details the order type needs and
// drops the fields that do not apply to it.
func validateDetails(orderType string, d domain.OrderDetails) (domain.OrderDetails, error) {
	if !domain.ValidOrderType(orderType) {
		return d, domain.Invalid("type", "must be delivery, takeaway or dine-in")
	}
	d.Address = strings.TrimSpace(d.Address)
	d.TableNumber = strings.TrimSpace(d.TableNumber)
	d.Phone = strings.TrimSpace(d.Phone)
	switch orderType {
	case domain.OrderTypeDelivery:
		if d.Address == "" {
			return d, domain.Invalid("details.address", "please enter your delivery address")
		}
		d.TableNumber, d.People = "", 0
	case domain.OrderTypeDineIn:
		if d.TableNumber == "" {
			return d, domain.Invalid("details.tableNumber", "please enter your table number")
		}
		if d.People < 0 {
			return d, domain.Invalid("details.people", "must not be negative")
		}
		d.Address = ""
	default:
		d.Address, d.TableNumber, d.People = "", "", 0
	}
	return d, nil
}

func lineFromOrder(l domain.OrderLine) (cart.LineItem, error) {
	if strings.TrimSpace(l.ProductID) == "" {
		return cart.LineItem{}, domain.Invalid("items.id", "required")
	}
	if l.Quantity <= 0 {
		return cart.LineItem{}, domain.Invalid("items.quantity", "must be positive")
	}
	if l.Quantity > domain.MaxLineQuantity {
		return cart.LineItem{}, domain.Invalid("items.quantity", "must be at most %d", domain.MaxLineQuantity)
	}
	if l.UnitPriceCents < 0 || l.UnitPriceCents > domain.MaxPriceCents {
		return cart.LineItem{}, domain.Invalid("items.price", "must be between 0 and %d paise", domain.MaxPriceCents)
	}
	line := cart.LineItem{
		ID:             l.ProductID,
		Name:           l.Name,
		Image:          l.Image,
		UnitPriceCents: l.UnitPriceCents,
		Quantity:       l.Quantity,
		RestaurantID:   l.RestaurantID,
	}
	for _, a := range l.AddOns {
		if a.PriceCents < 0 || a.PriceCents > domain.MaxPriceCents {
			return cart.LineItem{}, domain.Invalid("items.addons.price", "must be between 0 and %d paise", domain.MaxPriceCents)
		}
		line.AddOns = append(line.AddOns, cart.AddOn{ID: a.ID, Name: a.Name, PriceCents: a.PriceCents})
	}
	return line, nil
}

func orderLines(s cart.State) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(s.Items))
	for _, it := range s.Items {
		l := domain.OrderLine{
			ProductID:      it.ID,
			Name:           it.Name,
			Image:          it.Image,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			RestaurantID:   it.RestaurantID,
		}
		for _, a := range it.AddOns {
			l.AddOns = append(l.AddOns, domain.OrderAddOn{ID: a.ID, Name: a.Name, PriceCents: a.PriceCents})
		}
		out = append(out, l)
	}
	return out
}
