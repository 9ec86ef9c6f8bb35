package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/simple_shop/internal/db/dbtest"
	"github.com/Skotchmaster/simple_shop/internal/domain"
	"github.com/Skotchmaster/simple_shop/internal/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.Open(t)}
}

func seedProduct(t *testing.T, r *GormRepo, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func seedUser(t *testing.T, r *GormRepo, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x", Role: "user"}
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), u))
	return u
}

func TestProducts_CRUD(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a := seedProduct(t, r, "Widget", 9.99)
	seedProduct(t, r, "Gadget", 1.5)

	list, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Widget", list[0].Name)
	assert.Equal(t, 9.99, list[0].Price)

	got, err := r.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)

	updated, err := r.UpdateProduct(ctx, a.ID, func(p *models.Product) error {
		p.Price = 5
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 5.0, updated.Price)

	require.NoError(t, r.DeleteProduct(ctx, a.ID))
	_, err = r.GetProduct(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.DeleteProduct(ctx, a.ID), domain.ErrNotFound)

	_, err = r.UpdateProduct(ctx, 999, func(*models.Product) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListProducts_EmptyIsNotNil(t *testing.T) {
	r := newRepo(t)
	list, err := r.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSearch_LikeFallback(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	seedProduct(t, r, "Blue Widget", 1)
	seedProduct(t, r, "Red widget", 2)
	seedProduct(t, r, "100% cotton", 3)
	seedProduct(t, r, "Gadget", 4)

	total, items, err := r.Search(ctx, "WIDGET", 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Blue Widget", items[0].Name)

	total, _, err = r.Search(ctx, "%", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, _, err = r.Search(ctx, "  ", 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateUserIfNotExists_Conflict(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	seedUser(t, r, "alice")
	err := r.CreateUserIfNotExists(ctx, &models.User{Username: "alice", PasswordHash: "y", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	u, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "x", u.PasswordHash)

	_, err = r.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCart_AddRemoveCheckout(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice")
	other := seedUser(t, r, "bob")
	w := seedProduct(t, r, "Widget", 2.5)
	g := seedProduct(t, r, "Gadget", 1)

	_, err := r.AddToCart(ctx, u.ID, w.ID)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, u.ID, w.ID)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, u.ID, g.ID)
	require.NoError(t, err)
	_, err = r.AddToCart(ctx, other.ID, g.ID)
	require.NoError(t, err)

	_, err = r.AddToCart(ctx, u.ID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.AddToCart(ctx, 999, w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cart, err := r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cart, 3)
	assert.Equal(t, "Widget", cart[0].Name)
	assert.Equal(t, 2.5, cart[0].Price)

	require.NoError(t, r.RemoveFromCart(ctx, u.ID, w.ID))
	cart, err = r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cart, 2)

	assert.ErrorIs(t, r.RemoveFromCart(ctx, u.ID, 999), domain.ErrNotFound)

	lines, err := r.Checkout(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	cart, err = r.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	cart, err = r.GetCart(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestDeleteProduct_RemovesCartRows(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice")
	w := seedProduct(t, r, "Widget", 2.5)
	_, err := r.AddToCart(ctx, u.ID, w.ID)
	require.NoError(t, err)

	require.NoError(t, r.DeleteProduct(ctx, w.ID))

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Where("product_id = ?", w.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRotateRefreshToken(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "alice")
	exp := time.Now().Add(time.Hour).Unix()

	old := &models.RefreshToken{UserID: u.ID, JTI: "old", Token: "h-old", ExpiresAt: exp}
	require.NoError(t, r.SaveRefreshToken(ctx, old))

	next := &models.RefreshToken{UserID: u.ID, JTI: "next", Token: "h-next", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "old", next))

	stored, err := r.FindRefreshByJTI(ctx, "old")
	require.NoError(t, err)
	assert.True(t, stored.Revoked)

	again := &models.RefreshToken{UserID: u.ID, JTI: "again", Token: "h-again", ExpiresAt: exp}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "old", again), domain.ErrInvalidRefreshToken)
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "missing", again), domain.ErrInvalidRefreshToken)

	require.NoError(t, r.RevokeRefreshToken(ctx, "h-next"))
	stored, err = r.FindRefreshByJTI(ctx, "next")
	require.NoError(t, err)
	assert.True(t, stored.Revoked)
}

func TestRotateRefreshToken_Expired(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "alice")

	old := &models.RefreshToken{UserID: u.ID, JTI: "old", Token: "h-old", ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	require.NoError(t, r.SaveRefreshToken(ctx, old))

	next := &models.RefreshToken{UserID: u.ID, JTI: "next", Token: "h-next", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "old", next), domain.ErrInvalidRefreshToken)
}
