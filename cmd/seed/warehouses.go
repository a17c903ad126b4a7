package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	warehouseapp "github.com/storefront/backend/internal/application/warehouse"
	fileimport "github.com/storefront/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// warehouseStore is the part of the warehouse service the seeder needs
type warehouseStore interface {
	List(ctx context.Context, filter warehouseapp.WarehouseListFilter) ([]warehouseapp.WarehouseResponse, int64, error)
	Create(ctx context.Context, req warehouseapp.CreateWarehouseRequest) (*warehouseapp.WarehouseResponse, error)
	ListCountries(ctx context.Context) ([]warehouseapp.CountryResponse, error)
	UpsertCountry(ctx context.Context, req warehouseapp.UpsertCountryRequest) (*warehouseapp.CountryResponse, error)
}

// warehouseSeeder creates warehouses by code. A row carrying a country name
// and currency also upserts the country first; otherwise the country must exist.
type warehouseSeeder struct {
	store warehouseStore
	log   *zap.Logger

	codes     map[string]bool
	countries map[string]bool
}

func newWarehouseSeeder(store warehouseStore, log *zap.Logger) *warehouseSeeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &warehouseSeeder{
		store:     store,
		log:       log,
		codes:     make(map[string]bool),
		countries: make(map[string]bool),
	}
}

func (s *warehouseSeeder) load(ctx context.Context) error {
	countries, err := s.store.ListCountries(ctx)
	if err != nil {
		return fmt.Errorf("list countries: %w", err)
	}
	for _, c := range countries {
		s.countries[c.Code] = true
	}
	for page := 1; ; page++ {
		list, total, err := s.store.List(ctx, warehouseapp.WarehouseListFilter{Page: page, PageSize: 100})
		if err != nil {
			return fmt.Errorf("list warehouses: %w", err)
		}
		for _, w := range list {
			s.codes[strings.ToUpper(w.Code)] = true
		}
		if len(list) == 0 || int64(page*100) >= total {
			return nil
		}
	}
}

// Seed applies every row. Row failures are collected, not returned.
func (s *warehouseSeeder) Seed(ctx context.Context, rows []*fileimport.Row) (*seedStats, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	stats := &seedStats{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		s.seedRow(ctx, row, stats)
	}
	return stats, nil
}

func (s *warehouseSeeder) seedRow(ctx context.Context, row *fileimport.Row, stats *seedStats) {
	code := strings.TrimSpace(row.Get("code"))
	if code == "" {
		stats.fail(row.Line, "code", fmt.Errorf("code is required"))
		return
	}
	if s.codes[strings.ToUpper(code)] {
		stats.Skipped++
		return
	}
	country := strings.ToUpper(strings.TrimSpace(row.Get("country_code")))

	// currency_code is read through the "currency" header alias
	if countryName, currency := row.Get("country_name"), row.Get("currency"); countryName != "" && currency != "" {
		if _, err := s.store.UpsertCountry(ctx, warehouseapp.UpsertCountryRequest{
			Code:         country,
			Name:         countryName,
			CurrencyCode: strings.ToUpper(currency),
		}); err != nil {
			stats.fail(row.Line, "country_code", err)
			return
		}
		s.countries[country] = true
	}

	req := warehouseapp.CreateWarehouseRequest{
		Code:        code,
		Name:        row.GetOrDefault("name", code),
		CountryCode: country,
		City:        row.Get("city"),
		Address:     row.Get("address"),
	}
	if raw := strings.TrimSpace(row.Get("sort_order")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			stats.fail(row.Line, "sort_order", fmt.Errorf("sort_order must be an integer"))
			return
		}
		req.SortOrder = &n
	}
	if _, err := s.store.Create(ctx, req); err != nil {
		stats.fail(row.Line, "code", err)
		return
	}
	s.codes[strings.ToUpper(code)] = true
	stats.Created++
	s.log.Info("Warehouse created", zap.String("code", code), zap.String("country", country))
}
