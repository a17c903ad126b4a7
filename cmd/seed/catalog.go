package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	fileimport "github.com/storefront/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// categoryStore is the part of the category service the seeder needs
type categoryStore interface {
	ListTree(ctx context.Context, requested string, withNames bool) ([]catalogapp.CategoryResponse, error)
	Create(ctx context.Context, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	CreateSubcategory(ctx context.Context, categoryID uuid.UUID, req catalogapp.CreateSubcategoryRequest) (*catalogapp.SubcategoryResponse, error)
}

// brandStore is the part of the brand service the seeder needs
type brandStore interface {
	List(ctx context.Context, filter catalogapp.BrandListFilter) ([]catalogapp.BrandResponse, int64, error)
	Create(ctx context.Context, req catalogapp.CreateBrandRequest) (*catalogapp.BrandResponse, error)
}

// seedStats counts what a seed run did
type seedStats struct {
	Created int
	Skipped int
	Failed  []fileimport.RowError
}

func (s *seedStats) fail(line int, column string, err error) {
	s.Failed = append(s.Failed, fileimport.RowError{
		Line:    line,
		Column:  column,
		Code:    "SEED_FAILED",
		Message: err.Error(),
	})
}

// catalogSeeder creates the categories, subcategories and brands named in
// a file. Existing slugs are left untouched so a file can be applied twice.
type catalogSeeder struct {
	categories    categoryStore
	brands        brandStore
	defaultLocale string
	log           *zap.Logger

	categoryIDs    map[string]uuid.UUID
	subcategoryIDs map[string]uuid.UUID // "category/subcategory"
	brandSlugs     map[string]bool
}

func newCatalogSeeder(categories categoryStore, brands brandStore, defaultLocale string, log *zap.Logger) *catalogSeeder {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &catalogSeeder{
		categories:     categories,
		brands:         brands,
		defaultLocale:  defaultLocale,
		log:            log,
		categoryIDs:    make(map[string]uuid.UUID),
		subcategoryIDs: make(map[string]uuid.UUID),
		brandSlugs:     make(map[string]bool),
	}
}

// load reads the existing taxonomy
func (s *catalogSeeder) load(ctx context.Context) error {
	tree, err := s.categories.ListTree(ctx, "", false)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, c := range tree {
		s.categoryIDs[c.Slug] = c.ID
		for _, sub := range c.Subcategories {
			s.subcategoryIDs[c.Slug+"/"+sub.Slug] = sub.ID
		}
	}

	for page := 1; ; page++ {
		brands, total, err := s.brands.List(ctx, catalogapp.BrandListFilter{Page: page, PageSize: 100})
		if err != nil {
			return fmt.Errorf("list brands: %w", err)
		}
		for _, b := range brands {
			s.brandSlugs[b.Slug] = true
		}
		if len(brands) == 0 || int64(page*100) >= total {
			return nil
		}
	}
}

// Seed applies every row. Row failures are collected, not returned.
func (s *catalogSeeder) Seed(ctx context.Context, rows []*fileimport.Row) (*seedStats, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	stats := &seedStats{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		locale := strings.ToLower(row.GetOrDefault("locale", s.defaultLocale))
		s.seedCategory(ctx, row, locale, stats)
		s.seedBrand(ctx, row, stats)
	}
	return stats, nil
}

func (s *catalogSeeder) seedCategory(ctx context.Context, row *fileimport.Row, locale string, stats *seedStats) {
	catSlug := slugOf(row.Get("category"), row.Get("category_name"))
	if catSlug == "" {
		return
	}
	catID, ok := s.categoryIDs[catSlug]
	if ok {
		stats.Skipped++
	} else {
		created, err := s.categories.Create(ctx, catalogapp.CreateCategoryRequest{
			Slug:  catSlug,
			Names: map[string]string{locale: row.GetOrDefault("category_name", catSlug)},
		})
		if err != nil {
			stats.fail(row.Line, "category", err)
			return
		}
		catID = created.ID
		s.categoryIDs[catSlug] = catID
		stats.Created++
		s.log.Info("Category created", zap.String("slug", catSlug))
	}

	subSlug := slugOf(row.Get("subcategory"), row.Get("subcategory_name"))
	if subSlug == "" {
		return
	}
	key := catSlug + "/" + subSlug
	if _, ok := s.subcategoryIDs[key]; ok {
		stats.Skipped++
		return
	}
	created, err := s.categories.CreateSubcategory(ctx, catID, catalogapp.CreateSubcategoryRequest{
		Slug:  subSlug,
		Names: map[string]string{locale: row.GetOrDefault("subcategory_name", subSlug)},
	})
	if err != nil {
		stats.fail(row.Line, "subcategory", err)
		return
	}
	s.subcategoryIDs[key] = created.ID
	stats.Created++
	s.log.Info("Subcategory created", zap.String("category", catSlug), zap.String("slug", subSlug))
}

func (s *catalogSeeder) seedBrand(ctx context.Context, row *fileimport.Row, stats *seedStats) {
	name := strings.TrimSpace(row.Get("brand"))
	if name == "" {
		return
	}
	slug := catalog.Slugify(name)
	if s.brandSlugs[slug] {
		stats.Skipped++
		return
	}
	if _, err := s.brands.Create(ctx, catalogapp.CreateBrandRequest{Name: name, Slug: slug}); err != nil {
		stats.fail(row.Line, "brand", err)
		return
	}
	s.brandSlugs[slug] = true
	stats.Created++
	s.log.Info("Brand created", zap.String("slug", slug))
}

// slugOf prefers an explicit slug and falls back to the display name
func slugOf(slug, name string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return catalog.Slugify(slug)
	}
	return catalog.Slugify(name)
}
