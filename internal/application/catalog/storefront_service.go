package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	apppricing "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StorefrontService is the shopper-facing read model of the catalog
type StorefrontService struct {
	itemRepo        catalog.ItemRepository
	categoryRepo    catalog.CategoryRepository
	subcategoryRepo catalog.SubcategoryRepository
	brandRepo       catalog.BrandRepository
	priceRepo       pricing.ItemPriceRepository
	rates           apppricing.RatesProvider
	locales         *catalog.LocaleMatcher
	defaultCountry  string
	logger          *zap.Logger
	now             func() time.Time
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	itemRepo catalog.ItemRepository,
	categoryRepo catalog.CategoryRepository,
	subcategoryRepo catalog.SubcategoryRepository,
	brandRepo catalog.BrandRepository,
	priceRepo pricing.ItemPriceRepository,
	rates apppricing.RatesProvider,
	locales *catalog.LocaleMatcher,
	defaultCountry string,
	logger *zap.Logger,
) *StorefrontService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontService{
		itemRepo:        itemRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		brandRepo:       brandRepo,
		priceRepo:       priceRepo,
		rates:           rates,
		locales:         locales,
		defaultCountry:  strings.ToUpper(defaultCountry),
		logger:          logger,
		now:             time.Now,
	}
}

// view holds what every item in one request is rendered with
type view struct {
	locale   string
	country  string
	currency valueobject.Currency
	rates    pricing.ExchangeRates
	now      time.Time
}

func (s *StorefrontService) newView(ctx context.Context, q StorefrontQuery) (*view, error) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, err
	}
	currency, err := rates.DisplayCurrency(q.Currency)
	if err != nil {
		return nil, err
	}
	country := strings.ToUpper(strings.TrimSpace(q.Country))
	if country == "" {
		country = s.defaultCountry
	}
	return &view{
		locale:   s.locales.Match(q.Locale),
		country:  country,
		currency: currency,
		rates:    rates,
		now:      s.now(),
	}, nil
}

// ListItems lists active items in the requested locale with resolved prices
func (s *StorefrontService) ListItems(ctx context.Context, q StorefrontQuery) ([]StorefrontItem, int64, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 20
	}
	if q.OrderBy == "" {
		q.OrderBy = "created_at"
	}
	if q.OrderDir == "" {
		q.OrderDir = "desc"
	}

	v, err := s.newView(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	filter := shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Filters:  map[string]interface{}{"is_active": true},
	}
	found, err := s.resolveSlugFilters(ctx, q, filter.Filters)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return []StorefrontItem{}, 0, nil
	}

	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	offers, err := s.priceRepo.FindOffersForItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	refs, err := s.loadRefs(ctx, v)
	if err != nil {
		return nil, 0, err
	}

	result := make([]StorefrontItem, 0, len(items))
	for i := range items {
		si, err := s.render(&items[i], offers[items[i].ID], v, refs, false)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *si)
	}
	return result, total, nil
}

// GetItem returns an active item by slug with every warehouse offer priced
func (s *StorefrontService) GetItem(ctx context.Context, slug string, q StorefrontQuery) (*StorefrontItem, error) {
	v, err := s.newView(ctx, q)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, shared.ErrNotFound
	}
	offers, err := s.priceRepo.FindOffers(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	refs, err := s.loadRefs(ctx, v)
	if err != nil {
		return nil, err
	}
	return s.render(item, offers, v, refs, true)
}

// resolveSlugFilters turns category, subcategory and brand slugs into id filters.
// It reports false when a slug matches nothing.
func (s *StorefrontService) resolveSlugFilters(ctx context.Context, q StorefrontQuery, filters map[string]interface{}) (bool, error) {
	if q.Category != "" {
		c, err := s.categoryRepo.FindBySlug(ctx, q.Category)
		if err != nil {
			if shared.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		filters["category_id"] = c.ID
	}
	if q.Subcategory != "" {
		sub, err := s.subcategoryRepo.FindBySlug(ctx, q.Subcategory)
		if err != nil {
			if shared.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		filters["subcategory_id"] = sub.ID
	}
	if q.Brand != "" {
		b, err := s.brandRepo.FindBySlug(ctx, q.Brand)
		if err != nil {
			if shared.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		filters["brand_id"] = b.ID
	}
	return true, nil
}

// refs indexes category, subcategory and brand names for one request
type refs struct {
	categories    map[uuid.UUID]NamedRef
	subcategories map[uuid.UUID]NamedRef
	brands        map[uuid.UUID]NamedRef
}

func (s *StorefrontService) loadRefs(ctx context.Context, v *view) (*refs, error) {
	r := &refs{
		categories:    make(map[uuid.UUID]NamedRef),
		subcategories: make(map[uuid.UUID]NamedRef),
		brands:        make(map[uuid.UUID]NamedRef),
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		c := &categories[i]
		r.categories[c.ID] = NamedRef{ID: c.ID, Slug: c.Slug, Name: c.NameFor(v.locale, s.locales.Default())}
		for j := range c.Subcategories {
			sub := &c.Subcategories[j]
			r.subcategories[sub.ID] = NamedRef{ID: sub.ID, Slug: sub.Slug, Name: sub.NameFor(v.locale, s.locales.Default())}
		}
	}
	brands, err := s.brandRepo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	for i := range brands {
		b := &brands[i]
		r.brands[b.ID] = NamedRef{ID: b.ID, Slug: b.Slug, Name: b.Name}
	}
	return r, nil
}

func (s *StorefrontService) render(item *catalog.Item, offers []pricing.WarehouseOffer, v *view, r *refs, detailed bool) (*StorefrontItem, error) {
	si := &StorefrontItem{
		ID:      item.ID,
		Article: item.Article,
		Slug:    item.Slug,
		Name:    item.Article,
		Images:  item.Images,
	}
	if si.Images == nil {
		si.Images = []string{}
	}
	if d := item.DetailsFor(v.locale, s.locales.Default()); d != nil {
		si.Name = d.Name
		if detailed {
			si.Description = d.Description
		}
	}
	si.Category = lookupRef(r.categories, item.CategoryID)
	si.Subcategory = lookupRef(r.subcategories, item.SubcategoryID)
	si.Brand = lookupRef(r.brands, item.BrandID)

	resolved, err := pricing.Resolve(offers, v.country, v.currency, v.rates, v.now)
	if err != nil {
		// A price in a currency without a rate hides the price, not the item
		s.logger.Warn("failed to resolve item price",
			zap.String("item_id", item.ID.String()),
			zap.Error(err),
		)
		return si, nil
	}
	si.Price = ToPriceView(resolved)

	if detailed {
		si.Offers = make([]PriceView, 0, len(offers))
		for _, o := range offers {
			p, err := pricing.Price(o, v.currency, v.rates, v.now)
			if err != nil {
				continue
			}
			si.Offers = append(si.Offers, *ToPriceView(p))
		}
	}
	return si, nil
}

func lookupRef(m map[uuid.UUID]NamedRef, id *uuid.UUID) *NamedRef {
	if id == nil {
		return nil
	}
	ref, ok := m[*id]
	if !ok {
		return nil
	}
	return &ref
}
