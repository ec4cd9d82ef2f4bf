package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"app/internal/domain/model"
	infraRepo "app/internal/infra/repository"
	"app/internal/localstore"
	repo "app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuestRepo(t *testing.T) (*infraRepo.GuestCartRepository, string) {
	t.Helper()
	dir := t.TempDir()
	ls, err := localstore.New(dir, zerolog.Nop())
	require.NoError(t, err)
	return infraRepo.NewGuestCartRepository(ls, "JPY"), dir
}

func item(inv string, qty int64, price int64) model.CartItem {
	return model.CartItem{
		InventoryID: inv,
		Quantity:    qty,
		UnitPrice:   price,
		ProductName: "part " + inv,
	}
}

func TestGuestCart_AddToEmpty(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	cart, err := g.Add(ctx, item("INV-1", 2, 100))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "INV-1", cart.Items[0].InventoryID)
	assert.Equal(t, int64(2), cart.Items[0].Quantity)
	//ローカル採番IDが付く
	assert.True(t, strings.HasPrefix(cart.Items[0].ID, "local-"))
	//ローカル集計（手数料はバックエンドの領分なので0）
	assert.Equal(t, int64(200), cart.Summary.Subtotal)
	assert.Equal(t, int64(0), cart.Summary.CommissionTotal)
	assert.Equal(t, int64(200), cart.Summary.GrandTotal)
}

func TestGuestCart_SameInventoryMergesQuantity(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	_, err := g.Add(ctx, item("INV-1", 2, 100))
	require.NoError(t, err)
	cart, err := g.Add(ctx, item("INV-1", 3, 100))
	require.NoError(t, err)

	//同じ出品は明細を増やさず数量加算（INV-1 2+3=5）
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].Quantity)
}

func TestGuestCart_UpdateZeroRemovesEntry(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	cart, err := g.Add(ctx, item("INV-1", 2, 100))
	require.NoError(t, err)
	id := cart.Items[0].ID

	cart, err = g.UpdateQuantity(ctx, id, 0)
	require.NoError(t, err)
	//数量0の明細は保持しない
	assert.Empty(t, cart.Items)
}

func TestGuestCart_RemoveByID(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	cart, err := g.Add(ctx, item("INV-1", 1, 100))
	require.NoError(t, err)
	xID := cart.Items[0].ID
	cart, err = g.Add(ctx, item("INV-2", 1, 200))
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	cart, err = g.Remove(ctx, xID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "INV-2", cart.Items[0].InventoryID)
}

func TestGuestCart_RemoveUnknownID(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	_, err := g.Remove(ctx, "nope")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestGuestCart_InvalidQuantity(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	_, err := g.Add(ctx, item("INV-1", 0, 100))
	assert.ErrorIs(t, err, repo.ErrInvalidQuantity)
}

// どんな操作列でも「数量0以下なし」「同一出品の重複なし」が保たれる
func TestGuestCart_Invariants(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	_, err := g.Add(ctx, item("INV-1", 2, 100))
	require.NoError(t, err)
	_, err = g.Add(ctx, item("INV-2", 1, 300))
	require.NoError(t, err)
	cart, err := g.Add(ctx, item("INV-1", 3, 100))
	require.NoError(t, err)

	id2 := ""
	for _, it := range cart.Items {
		if it.InventoryID == "INV-2" {
			id2 = it.ID
		}
	}
	cart, err = g.UpdateQuantity(ctx, id2, 4)
	require.NoError(t, err)
	cart, err = g.UpdateQuantity(ctx, id2, -1)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, it := range cart.Items {
		assert.Greater(t, it.Quantity, int64(0))
		assert.False(t, seen[it.InventoryID], "duplicate inventory ref %s", it.InventoryID)
		seen[it.InventoryID] = true
	}
}

// 保存して読み直すと同じ明細列（出品参照・数量・順序）が再現される
func TestGuestCart_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ls, err := localstore.New(dir, zerolog.Nop())
	require.NoError(t, err)
	g := infraRepo.NewGuestCartRepository(ls, "JPY")
	ctx := context.Background()

	_, err = g.Add(ctx, item("INV-3", 1, 50))
	require.NoError(t, err)
	_, err = g.Add(ctx, item("INV-1", 2, 100))
	require.NoError(t, err)
	_, err = g.Add(ctx, item("INV-2", 4, 300))
	require.NoError(t, err)

	//別インスタンスで同じディレクトリを読む
	ls2, err := localstore.New(dir, zerolog.Nop())
	require.NoError(t, err)
	g2 := infraRepo.NewGuestCartRepository(ls2, "JPY")

	cart, err := g2.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 3)
	assert.Equal(t, "INV-3", cart.Items[0].InventoryID)
	assert.Equal(t, "INV-1", cart.Items[1].InventoryID)
	assert.Equal(t, "INV-2", cart.Items[2].InventoryID)
	assert.Equal(t, int64(1), cart.Items[0].Quantity)
	assert.Equal(t, int64(2), cart.Items[1].Quantity)
	assert.Equal(t, int64(4), cart.Items[2].Quantity)
}

func TestGuestCart_CorruptFileIsEmptyCart(t *testing.T) {
	g, dir := newGuestRepo(t)
	ctx := context.Background()

	//壊れた保存データは空のカートとして扱う（クラッシュしない）
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guest_cart.json"), []byte("{{{"), 0o600))

	cart, err := g.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGuestCart_Clear(t *testing.T) {
	g, _ := newGuestRepo(t)
	ctx := context.Background()

	_, err := g.Add(ctx, item("INV-1", 2, 100))
	require.NoError(t, err)

	require.NoError(t, g.Clear(ctx))

	cart, err := g.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	//空のカートのClearもエラーにしない
	require.NoError(t, g.Clear(ctx))
}
