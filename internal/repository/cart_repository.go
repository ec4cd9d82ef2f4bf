package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// 対象の明細が存在しない
var ErrNotFound = errors.New("cart item not found")

// 数量が1未満
var ErrInvalidQuantity = errors.New("invalid quantity")

// CartRepositoryはカートの裏付けストア（サーバ or ゲスト）の約束。
// どの操作も成功時には変更後の完全なカートを返し、
// 呼び出し側が再取得しなくても表示を更新できるようにする。
type CartRepository interface {
	// Fetchは全量を取得する。空のカートはエラーではない。
	Fetch(ctx context.Context) (model.Cart, error)

	// Addは明細を追加する。同じ出品への追加は数量を加算する。
	Add(ctx context.Context, item model.CartItem) (model.Cart, error)

	// UpdateQuantityは数量を変更する。0以下は明細ごと削除する。
	UpdateQuantity(ctx context.Context, itemID string, quantity int64) (model.Cart, error)

	// Removeは明細を削除する。サーバ採番IDとローカルIDの両方に対応する。
	Remove(ctx context.Context, itemID string) (model.Cart, error)

	// Clearはカートを空にする。
	Clear(ctx context.Context) error
}
