// Package importer loads restaurant menus from CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"foodorder/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type FoodItemWriter interface {
	Upsert(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
}

// MenuImporter reads menu CSV exports and inserts or updates food items.
// Items are matched by restaurant and name, so re-running a file is safe.
//
// Expected headers: restaurantId,name,description,price,category,image,rating,isTrending.
// An optional id column keeps existing ids. price is in rupees.
type MenuImporter struct {
	reader       *csv.Reader
	repo         FoodItemWriter
	restaurantID string
	logger       *zap.SugaredLogger
}

// NewMenuImporter builds an importer. restaurantID is used for rows whose
// restaurantId column is empty or missing.
func NewMenuImporter(r io.Reader, repo FoodItemWriter, restaurantID string, logger *zap.SugaredLogger) *MenuImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MenuImporter{
		reader:       csvr,
		repo:         repo,
		restaurantID: restaurantID,
		logger:       logger,
	}
}

// Run parses CSV rows and upserts one food item per non-blank row.
func (i *MenuImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}
	if _, ok := index["price"]; !ok {
		return 0, errors.New("missing price column")
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		item, err := i.parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := i.repo.Upsert(ctx, item); err != nil {
			return imported, fmt.Errorf("line %d: upsert %q: %w", line, item.Name, err)
		}
		imported++
		i.logger.Debugf("importer: upserted restaurant_id=%s name=%q", item.RestaurantID, item.Name)
	}
	return imported, nil
}

func (i *MenuImporter) parseRow(record []string, index map[string]int) (domain.FoodItem, error) {
	item := domain.FoodItem{
		ID:           pick(record, index, "id"),
		RestaurantID: pick(record, index, "restaurantId"),
		Name:         pick(record, index, "name"),
		Description:  pick(record, index, "description"),
		Category:     pick(record, index, "category"),
		Image:        pick(record, index, "image"),
	}
	if item.RestaurantID == "" {
		item.RestaurantID = i.restaurantID
	}
	if item.RestaurantID == "" {
		return item, domain.Invalid("restaurantId", "restaurant ID is required")
	}
	if item.Name == "" {
		return item, domain.Invalid("name", "required")
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return item, domain.Invalid("price", "not a number")
	}
	if item.PriceCents, err = domain.CentsFromDecimal("price", price); err != nil {
		return item, err
	}

	if v := pick(record, index, "rating"); v != "" {
		if item.Rating, err = strconv.ParseFloat(v, 64); err != nil {
			return item, domain.Invalid("rating", "not a number")
		}
	}
	if v := pick(record, index, "isTrending"); v != "" {
		if item.IsTrending, err = strconv.ParseBool(v); err != nil {
			return item, domain.Invalid("isTrending", "not a boolean")
		}
	}
	return item, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
