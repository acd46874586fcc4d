package admin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodorder/internal/domain"
	orderrepo "foodorder/internal/repository/order"
)

type stubUsers struct {
	users   map[string]domain.User
	updated domain.User
	deleted string
}

func (s *stubUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	u.ID = "new-user"
	return &u, nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *stubUsers) List(context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUsers) Update(_ context.Context, u domain.User) (*domain.User, error) {
	s.updated = u
	return &u, nil
}

func (s *stubUsers) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleted = id
	return nil
}

func (s *stubUsers) Count(context.Context) (int64, error) { return int64(len(s.users)), nil }

type stubRestaurants struct{}

func (stubRestaurants) List(context.Context) ([]domain.Restaurant, error) { return nil, nil }

func (stubRestaurants) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	if id != "1" {
		return nil, domain.ErrNotFound
	}
	return &domain.Restaurant{ID: "1", Name: "Dragon Palace", Cuisine: []string{"Chinese"}}, nil
}

func (stubRestaurants) Create(_ context.Context, r domain.Restaurant) (*domain.Restaurant, error) {
	r.ID = "r-new"
	return &r, nil
}

func (stubRestaurants) Update(_ context.Context, r domain.Restaurant) (*domain.Restaurant, error) {
	return &r, nil
}

func (stubRestaurants) Delete(context.Context, string) error { return nil }

func (stubRestaurants) Count(context.Context) (int64, error) { return 5, nil }

type stubItems struct {
	created []domain.FoodItem
}

func (s *stubItems) List(context.Context) ([]domain.FoodItem, error) { return nil, nil }

func (s *stubItems) GetByID(_ context.Context, id string) (*domain.FoodItem, error) {
	if id != "f1" {
		return nil, domain.ErrNotFound
	}
	return &domain.FoodItem{ID: "f1", RestaurantID: "1", Name: "Spring Rolls", PriceCents: 499, Category: "Appetizers"}, nil
}

func (s *stubItems) Create(_ context.Context, it domain.FoodItem) (*domain.FoodItem, error) {
	s.created = append(s.created, it)
	return &it, nil
}

func (s *stubItems) Update(_ context.Context, it domain.FoodItem) (*domain.FoodItem, error) {
	return &it, nil
}

func (s *stubItems) Delete(context.Context, string) error { return nil }

func (s *stubItems) Categories(context.Context) ([]string, error) {
	return []string{"Biryani", "Bengali", "Dosa"}, nil
}

type stubTotals struct{}

func (stubTotals) Totals(context.Context) (orderrepo.Totals, error) {
	return orderrepo.Totals{Count: 3, RevenueCents: 4500}, nil
}

type stubRevoker struct{ revoked []string }

func (s *stubRevoker) RevokeUser(_ context.Context, id string) error {
	s.revoked = append(s.revoked, id)
	return nil
}

type stubCache struct{ invalidations int }

func (s *stubCache) Invalidate() { s.invalidations++ }

type fixture struct {
	svc     *Service
	users   *stubUsers
	items   *stubItems
	revoker *stubRevoker
	cache   *stubCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		users:   &stubUsers{users: map[string]domain.User{"u1": {ID: "u1", Name: "John Doe", Email: "john@example.com", Role: domain.RoleUser, PasswordHash: "hash"}}},
		items:   &stubItems{},
		revoker: &stubRevoker{},
		cache:   &stubCache{},
	}
	uploads, err := NewUploads(t.TempDir())
	if err != nil {
		t.Fatalf("NewUploads: %v", err)
	}
	f.svc = New(Deps{
		Users:       f.users,
		Restaurants: stubRestaurants{},
		FoodItems:   f.items,
		Orders:      stubTotals{},
		Sessions:    f.revoker,
		Catalog:     f.cache,
		Uploads:     uploads,
	})
	return f
}

func strPtr(v string) *string { return &v }

func TestCategories_MergesDefaultsSorted(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(got) != len(DefaultCategories)+2 {
		t.Fatalf("expected defaults plus Bengali and Dosa, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("categories not sorted or not unique: %v", got)
		}
	}
}

func TestCreateFoodItem_RequiresRestaurant(t *testing.T) {
	f := newFixture(t)
	price := int64(1299)
	_, err := f.svc.CreateFoodItem(context.Background(), FoodItemInput{Name: strPtr("Chicken Biryani"), PriceCents: &price})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "restaurantId" {
		t.Fatalf("expected restaurantId validation error, got %v", err)
	}
	if f.cache.invalidations != 0 {
		t.Fatalf("cache invalidated on failed write")
	}

	it, err := f.svc.CreateFoodItem(context.Background(), FoodItemInput{RestaurantID: strPtr("1"), Name: strPtr("Chicken Biryani"), PriceCents: &price})
	if err != nil || it.PriceCents != 1299 {
		t.Fatalf("CreateFoodItem = %+v, %v", it, err)
	}
	if f.cache.invalidations != 1 {
		t.Fatalf("expected catalog invalidation, got %d", f.cache.invalidations)
	}
}

func TestUpdateFoodItem_PartialMerge(t *testing.T) {
	f := newFixture(t)
	trending := true
	it, err := f.svc.UpdateFoodItem(context.Background(), "f1", FoodItemInput{IsTrending: &trending})
	if err != nil {
		t.Fatalf("UpdateFoodItem: %v", err)
	}
	if !it.IsTrending || it.Name != "Spring Rolls" || it.PriceCents != 499 {
		t.Fatalf("partial update lost fields: %+v", it)
	}
	if _, err := f.svc.UpdateFoodItem(context.Background(), "missing", FoodItemInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser_KeepsPasswordUnlessGiven(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.UpdateUser(context.Background(), "u1", UserInput{Name: strPtr("John D")}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if f.users.updated.PasswordHash != "" || f.users.updated.Name != "John D" {
		t.Fatalf("unexpected update %+v", f.users.updated)
	}
	if _, err := f.svc.UpdateUser(context.Background(), "u1", UserInput{Password: strPtr("newpass")}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if f.users.updated.PasswordHash == "" || f.users.updated.PasswordHash == "newpass" {
		t.Fatalf("password not hashed: %+v", f.users.updated)
	}
	if _, err := f.svc.UpdateUser(context.Background(), "u1", UserInput{Role: strPtr("root")}); err == nil {
		t.Fatalf("expected role validation error")
	}
}

func TestDeleteUser_RevokesSessions(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.DeleteUser(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if len(f.revoker.revoked) != 1 || f.revoker.revoked[0] != "u1" {
		t.Fatalf("sessions not revoked: %v", f.revoker.revoked)
	}
	if err := f.svc.DeleteUser(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.revoker.revoked) != 1 {
		t.Fatalf("revoked sessions of missing user")
	}
}

func TestCreateUser_WithoutPasswordCannotLogIn(t *testing.T) {
	f := newFixture(t)
	u, err := f.svc.CreateUser(context.Background(), UserInput{Name: strPtr("Robert Johnson"), Email: strPtr(" Robert@Example.com ")})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "robert@example.com" || u.PasswordHash != unusablePassword || u.Role != domain.RoleUser {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	st, err := f.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := domain.Stats{TotalOrders: 3, TotalUsers: 1, TotalRestaurants: 5, TotalRevenueCents: 4500}
	if st != want {
		t.Fatalf("Stats = %+v, want %+v", st, want)
	}
}

func TestUpload_WritesFile(t *testing.T) {
	f := newFixture(t)
	path, err := f.svc.Upload(context.Background(), "photo.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(path, "/uploads/") || !strings.HasSuffix(path, ".png") {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(filepath.Join(f.svc.uploads.Dir(), strings.TrimPrefix(path, "/uploads/")))
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	var verr *domain.ValidationError
	if _, err := f.svc.Upload(context.Background(), "script.sh", strings.NewReader("x")); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for non-image, got %v", err)
	}
}
