package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"app/internal/apiclient"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ServerCartRepositoryはバックエンドのカートAPIを裏付けにする実装。
// 認証済み購入者セッションでのみ使える。
type ServerCartRepository struct {
	api *apiclient.APIClient
}

// DI
func NewServerCartRepository(api *apiclient.APIClient) *ServerCartRepository {
	return &ServerCartRepository{api: api}
}

type addCartRequest struct {
	InventoryID string `json:"inventoryId"`
	Quantity    int64  `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (r *ServerCartRepository) Fetch(ctx context.Context) (model.Cart, error) {
	env, err := r.api.Get(ctx, "/api/buyer/cart")
	if err != nil {
		return model.Cart{}, err
	}
	return decodeCart(env)
}

func (r *ServerCartRepository) Add(ctx context.Context, item model.CartItem) (model.Cart, error) {
	if item.Quantity < 1 {
		return model.Cart{}, repo.ErrInvalidQuantity
	}
	env, err := r.api.Post(ctx, "/api/buyer/cart/add", addCartRequest{
		InventoryID: item.InventoryID,
		Quantity:    item.Quantity,
	})
	if err != nil {
		return model.Cart{}, err
	}
	return decodeCart(env)
}

func (r *ServerCartRepository) UpdateQuantity(ctx context.Context, itemID string, quantity int64) (model.Cart, error) {
	// 0以下は削除として扱う（サーバ側仕様と揃える）
	if quantity <= 0 {
		return r.Remove(ctx, itemID)
	}
	env, err := r.api.Put(ctx, "/api/buyer/cart/item/"+itemID, updateCartItemRequest{Quantity: quantity})
	if err != nil {
		return model.Cart{}, err
	}
	return decodeCart(env)
}

func (r *ServerCartRepository) Remove(ctx context.Context, itemID string) (model.Cart, error) {
	env, err := r.api.Delete(ctx, "/api/buyer/cart/item/"+itemID)
	if err != nil {
		if ae, ok := apiclient.AsAPIError(err); ok && ae.Status == http.StatusNotFound {
			return model.Cart{}, repo.ErrNotFound
		}
		return model.Cart{}, err
	}
	return decodeCart(env)
}

func (r *ServerCartRepository) Clear(ctx context.Context) error {
	env, err := r.api.Delete(ctx, "/api/buyer/cart")
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("cart clear failed: %s", env.Message)
	}
	return nil
}

// decodeCartは封筒からカート本体を取り出す。封筒から外れた応答は失敗。
func decodeCart(env model.Envelope) (model.Cart, error) {
	if !env.Success {
		return model.Cart{}, fmt.Errorf("cart api failed: %s", env.Message)
	}
	var cart model.Cart
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		return model.Cart{}, fmt.Errorf("cart api returned invalid data: %w", err)
	}
	return cart, nil
}
