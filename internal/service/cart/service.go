package cart

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	"foodorder/internal/logging"
	"foodorder/internal/menu"
	"foodorder/internal/metrics"
	"foodorder/internal/session"
	sets "github.com/deckarep/golang-set/v2"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// storeIdleTTL is how long an untouched cart stays in memory when a
// repository backs it. Expired carts are written once more and reloaded
// on the next request.
const storeIdleTTL = 30 * time.Minute

type cartRepo interface {
	Get(ctx context.Context, userID string) (cart.State, error)
	Save(ctx context.Context, userID string, s cart.State) (bool, error)
}

type foodItemRepo interface {
	GetByID(ctx context.Context, id string) (*domain.FoodItem, error)
}

// Service keeps one cart store per user. Mutations go through the user's
// store; the resulting state is then written to the repository, which
// drops writes older than what it already holds.
type Service struct {
	repo   cartRepo
	items  foodItemRepo
	addOns func(category, name string) []cart.AddOn
	logger *zap.SugaredLogger

	stores *ttlcache.Cache[string, *cart.Store]

	unsubscribe func()
	closeOnce   sync.Once
	stopExpiry  func()
}

// New builds a Service. repo may be nil for an in-memory only cart. When a
// notifier is given, every ended session resets the owner's cart.
func New(repo cartRepo, items foodItemRepo, notifier *session.Notifier, logger *zap.SugaredLogger) *Service {
	s := &Service{
		repo:   repo,
		items:  items,
		addOns: menu.AddOnsFor,
		logger: logging.OrNop(logger),
	}
	if repo != nil {
		s.stores = ttlcache.New[string, *cart.Store](ttlcache.WithTTL[string, *cart.Store](storeIdleTTL))
		s.stores.OnEviction(s.flushEvicted)
		go s.stores.Start()
		s.stopExpiry = s.stores.Stop
	} else {
		// Without a repository the store is the only copy; never expire it.
		s.stores = ttlcache.New[string, *cart.Store]()
	}
	if notifier != nil {
		s.unsubscribe = notifier.Subscribe(s.onSessionEnd)
	}
	return s
}

// Close stops listening for session ends and stops expiring idle carts.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		if s.stopExpiry != nil {
			s.stopExpiry()
		}
	})
}

// AddInput selects a catalog item, a quantity and add-ons by id.
type AddInput struct {
	FoodItemID string   `json:"foodItemId"`
	Quantity   int      `json:"quantity"`
	AddOnIDs   []string `json:"addonIds"`
}

func (s *Service) Get(ctx context.Context, userID string) (cart.State, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return cart.State{}, err
	}
	return st.Snapshot(), nil
}

// AddItem prices the line from the catalog and adds it. Add-on ids must
// belong to the item's add-on menu; repeated ids count once.
func (s *Service) AddItem(ctx context.Context, userID string, in AddInput) (cart.State, error) {
	id := strings.TrimSpace(in.FoodItemID)
	if id == "" {
		return cart.State{}, domain.Invalid("foodItemId", "required")
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return cart.State{}, domain.Invalid("quantity", "must be positive")
	}
	if qty > domain.MaxLineQuantity {
		return cart.State{}, domain.Invalid("quantity", "must be at most %d", domain.MaxLineQuantity)
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return cart.State{}, err
	}
	addOns, err := s.selectAddOns(*item, in.AddOnIDs)
	if err != nil {
		return cart.State{}, err
	}

	line := cart.LineItem{
		ID:             item.ID,
		Name:           item.Name,
		Image:          item.Image,
		UnitPriceCents: item.PriceCents,
		Quantity:       qty,
		AddOns:         addOns,
		RestaurantID:   item.RestaurantID,
	}
	return s.dispatch(ctx, userID, cart.AddItem(line), func(cur cart.State) error {
		if existing, ok := cur.Match(line); ok && existing.Quantity+qty > domain.MaxLineQuantity {
			return domain.Invalid("quantity", "line already holds %d, at most %d allowed", existing.Quantity, domain.MaxLineQuantity)
		}
		return nil
	})
}

func (s *Service) selectAddOns(item domain.FoodItem, ids []string) ([]cart.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	offered := s.addOns(item.Category, item.Name)
	known := sets.NewThreadUnsafeSet[string]()
	for _, a := range offered {
		known.Add(a.ID)
	}
	selected := sets.NewThreadUnsafeSet(ids...)
	if unknown := selected.Difference(known); unknown.Cardinality() > 0 {
		return nil, domain.Invalid("addonIds", "unknown add-on %v for %s", sortedIDs(unknown), item.Name)
	}
	out := make([]cart.AddOn, 0, selected.Cardinality())
	for _, a := range offered {
		if selected.Contains(a.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func sortedIDs(set sets.Set[string]) []string {
	ids := set.ToSlice()
	sort.Strings(ids)
	return ids
}

// UpdateQuantity sets the quantity of the first line of the product.
// A quantity of zero or less removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (cart.State, error) {
	if err := checkQuantity(quantity); err != nil {
		return cart.State{}, err
	}
	return s.dispatch(ctx, userID, cart.UpdateQuantity(productID, quantity), nil)
}

// RemoveItem removes the first line of the product.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (cart.State, error) {
	return s.dispatch(ctx, userID, cart.RemoveItem(productID), nil)
}

// UpdateLine sets the quantity of the line with the given key.
func (s *Service) UpdateLine(ctx context.Context, userID, key string, quantity int) (cart.State, error) {
	if err := checkQuantity(quantity); err != nil {
		return cart.State{}, err
	}
	return s.dispatch(ctx, userID, cart.UpdateLineQuantity(key, quantity), nil)
}

func (s *Service) RemoveLine(ctx context.Context, userID, key string) (cart.State, error) {
	return s.dispatch(ctx, userID, cart.RemoveLine(key), nil)
}

func (s *Service) Clear(ctx context.Context, userID string) (cart.State, error) {
	return s.dispatch(ctx, userID, cart.Clear(), nil)
}

// ClearIfVersion empties the cart only if nothing changed it since the
// given version. It reports whether the cart was cleared.
func (s *Service) ClearIfVersion(ctx context.Context, userID string, version uint64) (cart.State, bool, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return cart.State{}, false, err
	}
	next, ok := st.DispatchIf(version, cart.Clear())
	if !ok {
		return next, false, nil
	}
	metrics.CartOperation(cart.KindClear.String())
	s.persist(ctx, userID, next)
	return next, true, nil
}

func checkQuantity(quantity int) error {
	if quantity > domain.MaxLineQuantity {
		return domain.Invalid("quantity", "must be at most %d", domain.MaxLineQuantity)
	}
	return nil
}

func (s *Service) onSessionEnd(e session.Event) {
	if e.UserID == "" {
		return
	}
	ctx := context.Background()
	st, err := s.store(ctx, e.UserID)
	if err != nil {
		s.logger.Errorf("cart service: reset user_id=%s reason=%s error=%v", e.UserID, e.Reason, err)
		return
	}
	next := st.Reset()
	metrics.CartOperation(cart.KindReset.String())
	metrics.CartReset()
	// The store is only dropped once the empty cart is stored; otherwise a
	// reload would bring the old lines back.
	if s.persist(ctx, e.UserID, next) {
		s.stores.Delete(e.UserID)
	}
	s.logger.Infof("cart service: reset user_id=%s reason=%s", e.UserID, e.Reason)
}

func (s *Service) dispatch(ctx context.Context, userID string, a cart.Action, check func(cart.State) error) (cart.State, error) {
	st, err := s.store(ctx, userID)
	if err != nil {
		return cart.State{}, err
	}
	next, changed, err := st.DispatchChecked(a, check)
	if err != nil || !changed {
		return next, err
	}
	metrics.CartOperation(a.Kind.String())
	s.persist(ctx, userID, next)
	return next, nil
}

// persist writes behind the in-memory store and reports whether the write
// went through. A failed write is logged and retried implicitly by the
// next mutation, which carries the full state.
func (s *Service) persist(ctx context.Context, userID string, state cart.State) bool {
	if s.repo == nil {
		return true
	}
	if _, err := s.repo.Save(ctx, userID, state); err != nil {
		s.logger.Warnf("cart service: save user_id=%s version=%d error=%v", userID, state.Version, err)
		return false
	}
	return true
}

// flushEvicted writes an expired cart one last time. The repository
// ignores it when that version is already stored.
func (s *Service) flushEvicted(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *cart.Store]) {
	if reason == ttlcache.EvictionReasonDeleted {
		return
	}
	s.persist(context.Background(), item.Key(), item.Value().Snapshot())
}

func (s *Service) store(ctx context.Context, userID string) (*cart.Store, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.Invalid("userId", "required")
	}
	if item := s.stores.Get(userID); item != nil {
		return item.Value(), nil
	}
	// An expired entry would otherwise be replaced below without its final
	// write.
	s.stores.DeleteExpired()

	loaded := cart.Empty()
	if s.repo != nil {
		state, err := s.repo.Get(ctx, userID)
		switch {
		case err == nil:
			loaded = state
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, err
		}
	}

	// A concurrent first request may have stored its copy already.
	item, _ := s.stores.GetOrSet(userID, cart.NewStoreFrom(loaded))
	return item.Value(), nil
}
