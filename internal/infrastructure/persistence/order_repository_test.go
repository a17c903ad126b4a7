package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, userID uuid.UUID, email string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(userID, "EUR",
		order.Contact{Name: "Dana", Email: email, Phone: "+77010000000"},
		order.ShippingAddress{Country: "KZ", City: "Almaty", Address: "Abay 1"}, "")
	require.NoError(t, err)
	require.NoError(t, o.AddLine(order.Line{
		ItemID: uuid.New(), WarehouseID: uuid.New(), Article: "AB-1", Name: "Lamp",
		UnitPrice: decimal.RequireFromString("5.25"), Quantity: 2,
	}))
	return o
}

func TestGormOrderRepository_SaveAndReload(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	o := newTestOrder(t, uuid.New(), "dana@example.com")

	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByNumber(ctx, o.Number)
	require.NoError(t, err)
	assert.Equal(t, o.ID, loaded.ID)
	assert.Equal(t, "10.5", loaded.Total.String())
	assert.Equal(t, "Almaty", loaded.Shipping.City)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)

	require.NoError(t, loaded.TransitionTo(order.StatusPaid, time.Now()))
	require.NoError(t, repo.Save(ctx, loaded))

	again, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, again.Status)
	assert.NotNil(t, again.PaidAt)
	assert.Len(t, again.Items, 1, "lines are not duplicated on update")

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestGormOrderRepository_FindAllFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	alice := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestOrder(t, alice, "alice@example.com")))
	require.NoError(t, repo.Save(ctx, newTestOrder(t, alice, "alice@example.com")))
	require.NoError(t, repo.Save(ctx, newTestOrder(t, uuid.New(), "bob@example.com")))

	mine, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"user_id": alice}})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	n, err := repo.Count(ctx, shared.Filter{Search: "BOB@"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	pending, err := repo.Count(ctx, shared.Filter{Filters: map[string]any{"status": "pending"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)
}

func TestGormPaymentRepository(t *testing.T) {
	db := newTestDB(t)
	orders := NewGormOrderRepository(db)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	o := newTestOrder(t, uuid.New(), "dana@example.com")
	require.NoError(t, orders.Save(ctx, o))

	p, err := payment.NewPayment(o.ID, payment.ProviderCard, o.Total, o.Currency)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, p.Complete("TX-1", time.Now()))
	require.NoError(t, repo.Save(ctx, p))

	list, err := repo.FindByOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, payment.StatusCompleted, list[0].Status)
	assert.Equal(t, "TX-1", list[0].ProviderRef)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}
