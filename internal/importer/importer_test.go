package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"foodorder/internal/domain"
)

type stubFoodItemRepo struct {
	items []domain.FoodItem
}

func (s *stubFoodItemRepo) Upsert(_ context.Context, it domain.FoodItem) (*domain.FoodItem, error) {
	s.items = append(s.items, it)
	return &it, nil
}

func TestMenuImporter_Run(t *testing.T) {
	csvData := `restaurantId,name,description,price,category,image,rating,isTrending
1,Chicken Biryani,Fragrant rice with chicken,12.99,Biryani,https://example.com/biryani.jpg,4.8,true
,Paneer Tikka,,8.5,Appetizers,,,
,,,,,,,
2,Margherita Pizza,Classic,10,Pizza,,4.2,false`

	repo := &stubFoodItemRepo{}
	imp := NewMenuImporter(strings.NewReader(csvData), repo, "3", nil)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(repo.items) != 3 {
		t.Fatalf("expected 3 items imported, got %d (%d saved)", count, len(repo.items))
	}

	first := repo.items[0]
	if first.RestaurantID != "1" || first.PriceCents != 1299 || first.Rating != 4.8 || !first.IsTrending || first.Category != "Biryani" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if repo.items[1].RestaurantID != "3" || repo.items[1].PriceCents != 850 {
		t.Fatalf("expected default restaurant and 850 paise, got %+v", repo.items[1])
	}
	if repo.items[2].PriceCents != 1000 || repo.items[2].IsTrending {
		t.Fatalf("unexpected third item: %+v", repo.items[2])
	}
}

func TestMenuImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing restaurant": "name,price\nSamosa,2.50",
		"bad price":          "restaurantId,name,price\n1,Samosa,two",
		"sub-paise price":    "restaurantId,name,price\n1,Samosa,2.505",
		"bad rating":         "restaurantId,name,price,rating\n1,Samosa,2.5,great",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubFoodItemRepo{}
			_, err := NewMenuImporter(strings.NewReader(data), repo, "", nil).Run(context.Background())
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.items) != 0 {
				t.Fatalf("bad row saved: %+v", repo.items)
			}
		})
	}
}

func TestMenuImporter_MissingColumns(t *testing.T) {
	_, err := NewMenuImporter(strings.NewReader("restaurantId,title\n1,x"), &stubFoodItemRepo{}, "", nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected missing name column error, got %v", err)
	}
}
