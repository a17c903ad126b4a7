package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apppricing "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartService manages the signed-in user's cart
type CartService struct {
	cartRepo  cart.CartRepository
	itemRepo  catalog.ItemRepository
	priceRepo pricing.ItemPriceRepository
	rates     apppricing.RatesProvider
	locales   *catalog.LocaleMatcher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCartService creates a new CartService
func NewCartService(
	cartRepo cart.CartRepository,
	itemRepo catalog.ItemRepository,
	priceRepo pricing.ItemPriceRepository,
	rates apppricing.RatesProvider,
	locales *catalog.LocaleMatcher,
	logger *zap.Logger,
) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		cartRepo:  cartRepo,
		itemRepo:  itemRepo,
		priceRepo: priceRepo,
		rates:     rates,
		locales:   locales,
		logger:    logger,
		now:       time.Now,
	}
}

// GetCart returns the user's cart; a user without one gets an empty cart
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID, q ViewQuery) (*CartView, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, c, q)
}

// AddItem puts an item from a warehouse into the cart, merging with an existing line
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest, q ViewQuery) (*CartView, error) {
	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Item not found")
		}
		return nil, err
	}
	if !item.IsActive {
		return nil, shared.NewDomainError("ITEM_NOT_AVAILABLE", "Item is not available")
	}
	price, err := s.priceRepo.FindByItemAndWarehouse(ctx, req.ItemID, req.WarehouseID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("ITEM_NOT_AVAILABLE", "Item is not sold from this warehouse")
		}
		return nil, err
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := c.AddItem(req.ItemID, req.WarehouseID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if line.Quantity > price.Quantity {
		return nil, shared.ErrInsufficientStock
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.render(ctx, c, q)
}

// UpdateQuantity sets the quantity of a line; zero removes it
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int, q ViewQuery) (*CartView, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if qty > 0 {
		line := findLine(c, lineID)
		if line == nil {
			return nil, shared.ErrNotFound
		}
		price, err := s.priceRepo.FindByItemAndWarehouse(ctx, line.ItemID, line.WarehouseID)
		if err != nil && !shared.IsNotFound(err) {
			return nil, err
		}
		if price == nil || qty > price.Quantity {
			return nil, shared.ErrInsufficientStock
		}
	}
	if err := c.SetQuantity(lineID, qty); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.render(ctx, c, q)
}

// RemoveItem drops a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, lineID uuid.UUID, q ViewQuery) (*CartView, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(lineID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.render(ctx, c, q)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	if c.IsEmpty() {
		return nil
	}
	c.Clear()
	return s.cartRepo.Save(ctx, c)
}

func (s *CartService) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return cart.NewCart(userID), nil
		}
		return nil, err
	}
	return c, nil
}

func findLine(c *cart.Cart, lineID uuid.UUID) *cart.CartItem {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return &c.Items[i]
		}
	}
	return nil
}

func (s *CartService) render(ctx context.Context, c *cart.Cart, q ViewQuery) (*CartView, error) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, err
	}
	currency, err := rates.DisplayCurrency(q.Currency)
	if err != nil {
		return nil, err
	}
	locale := s.locales.Match(q.Locale)

	view := &CartView{
		ID:            c.ID,
		Currency:      string(currency),
		Items:         make([]LineView, 0, len(c.Items)),
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      "0.00",
		CanCheckout:   !c.IsEmpty(),
	}
	if c.IsEmpty() {
		return view, nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, line := range c.Items {
		ids = append(ids, line.ItemID)
	}
	items, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	offers, err := s.priceRepo.FindOffersForItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	subtotal := decimal.Zero
	for _, line := range c.Items {
		lv := LineView{
			ID:          line.ID,
			ItemID:      line.ItemID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.Quantity,
		}
		item := byID[line.ItemID]
		if item != nil {
			lv.Article = item.Article
			lv.Slug = item.Slug
			lv.Name = item.Article
			if d := item.DetailsFor(locale, s.locales.Default()); d != nil {
				lv.Name = d.Name
			}
			if len(item.Images) > 0 {
				lv.Image = item.Images[0]
			}
		}

		offer := findOffer(offers[line.ItemID], line.WarehouseID)
		if item != nil && item.IsActive && offer != nil {
			resolved, err := pricing.Price(*offer, currency, rates, now)
			if err != nil {
				s.logger.Warn("failed to price cart line",
					zap.String("item_id", line.ItemID.String()),
					zap.Error(err))
			} else {
				unit := resolved.EffectivePrice.Amount()
				total := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
				lv.WarehouseName = resolved.WarehouseName
				lv.UnitPrice = unit.StringFixed(2)
				lv.LineTotal = total.StringFixed(2)
				lv.Badge = string(resolved.Badge)
				lv.InStock = resolved.Quantity
				lv.Available = resolved.Quantity >= line.Quantity
				subtotal = subtotal.Add(total)
			}
		}
		if !lv.Available {
			view.CanCheckout = false
		}
		view.Items = append(view.Items, lv)
	}
	view.Subtotal = subtotal.StringFixed(2)
	return view, nil
}

func findOffer(offers []pricing.WarehouseOffer, warehouseID uuid.UUID) *pricing.WarehouseOffer {
	for i := range offers {
		if offers[i].Price.WarehouseID == warehouseID {
			return &offers[i]
		}
	}
	return nil
}
