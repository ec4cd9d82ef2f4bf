package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
	"app/internal/localstore"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// ゲストカートのlocalstoreキー。このキー1つに全明細が入る。
const guestCartKey = "guest_cart"

// ローカル採番IDの接頭辞。サーバ採番IDと見分けるためだけに付ける。
const localIDPrefix = "local-"

// GuestCartRepositoryはローカル保存だけを裏付けにする実装。
// ネットワークには一切触れない。読み出し→変更→書き戻しの繰り返しで動く。
type GuestCartRepository struct {
	ls       *localstore.Store
	currency string
	now      func() time.Time
}

// DI
func NewGuestCartRepository(ls *localstore.Store, currency string) *GuestCartRepository {
	return &GuestCartRepository{ls: ls, currency: currency, now: time.Now}
}

func (r *GuestCartRepository) Fetch(ctx context.Context) (model.Cart, error) {
	file := r.load()
	return r.buildCart(file), nil
}

func (r *GuestCartRepository) Add(ctx context.Context, item model.CartItem) (model.Cart, error) {
	if item.Quantity < 1 {
		return model.Cart{}, repo.ErrInvalidQuantity
	}

	file := r.load()

	// 同じ出品が既にあれば数量加算、無ければ末尾に追加
	merged := false
	for i := range file.Items {
		if file.Items[i].InventoryID == item.InventoryID {
			file.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		if item.ID == "" {
			item.ID = localIDPrefix + uuid.NewString()
		}
		if item.Currency == "" {
			item.Currency = r.currency
		}
		file.Items = append(file.Items, item)
	}

	if err := r.save(file); err != nil {
		return model.Cart{}, err
	}
	return r.buildCart(file), nil
}

func (r *GuestCartRepository) UpdateQuantity(ctx context.Context, itemID string, quantity int64) (model.Cart, error) {
	// 0以下は「数量0の明細を保持」ではなく明細ごと削除
	if quantity <= 0 {
		return r.Remove(ctx, itemID)
	}

	file := r.load()

	found := false
	for i := range file.Items {
		if file.Items[i].ID == itemID {
			file.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return model.Cart{}, repo.ErrNotFound
	}

	if err := r.save(file); err != nil {
		return model.Cart{}, err
	}
	return r.buildCart(file), nil
}

func (r *GuestCartRepository) Remove(ctx context.Context, itemID string) (model.Cart, error) {
	file := r.load()

	kept := file.Items[:0]
	found := false
	for _, it := range file.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return model.Cart{}, repo.ErrNotFound
	}
	file.Items = kept

	if err := r.save(file); err != nil {
		return model.Cart{}, err
	}
	return r.buildCart(file), nil
}

func (r *GuestCartRepository) Clear(ctx context.Context) error {
	// キーごと消す。無いキーは空のカートと同じなのでエラーにしない。
	return r.ls.Remove(guestCartKey)
}

// loadは保存済みのゲストカートを読む。キー無し・壊れたJSONは空のカート。
func (r *GuestCartRepository) load() model.GuestCartFile {
	var file model.GuestCartFile
	ok, err := r.ls.Get(guestCartKey, &file)
	if err != nil || !ok {
		return model.GuestCartFile{Currency: r.currency}
	}
	if file.Currency == "" {
		file.Currency = r.currency
	}
	return file
}

func (r *GuestCartRepository) save(file model.GuestCartFile) error {
	file.LastUpdated = r.now().UTC().Format(time.RFC3339)
	return r.ls.Set(guestCartKey, file)
}

// buildCartは明細からローカル集計を作る。
// 手数料はバックエンドの領分なのでゲストでは常に0。
func (r *GuestCartRepository) buildCart(file model.GuestCartFile) model.Cart {
	items := make([]model.CartItem, len(file.Items))
	copy(items, file.Items)

	var count, subtotal int64
	for _, it := range items {
		count += it.Quantity
		subtotal += it.UnitPrice * it.Quantity
	}

	return model.Cart{
		Items: items,
		Summary: model.CartSummary{
			ItemCount:  count,
			Subtotal:   subtotal,
			GrandTotal: subtotal,
		},
		Currency: file.Currency,
	}
}
