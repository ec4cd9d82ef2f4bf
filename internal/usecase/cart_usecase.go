package usecase

import (
	"context"
	"errors"

	"app/internal/apiclient"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/store"

	"github.com/rs/zerolog"
)

// Modeはカートの裏付けストアを表す状態。
// 認証状態の関数であって、カートのデータ自体には保存しない。
type Mode int

const (
	ModeUninitialized Mode = iota
	ModeGuest              // ローカル保存が正
	ModeServer             // バックエンドが正（認証済み購入者のみ）
)

func (m Mode) String() string {
	switch m {
	case ModeGuest:
		return "guest"
	case ModeServer:
		return "server"
	default:
		return "uninitialized"
	}
}

// AuthStateはカート同期が認証状態を見るための約束。
type AuthState interface {
	IsAuthenticated() bool
	IsBuyer() bool
}

// CartUsecaseはサーバカートとゲストカートを1つの論理カートとして見せる。
// どの操作もモードに応じて内部で分岐し、成功時はstoreに
// 変更後の完全なスナップショットを置く（UIの再取得は不要）。
//
// 既知の制約：競合検出なし（後勝ち）、リトライなし、タブ間同期なし。
type CartUsecase struct {
	server repo.CartRepository
	guest  repo.CartRepository
	auth   AuthState
	store  *store.CartStore
	logger zerolog.Logger
	mode   Mode
}

// DI
func NewCartUsecase(
	server repo.CartRepository,
	guest repo.CartRepository,
	auth AuthState,
	st *store.CartStore,
	logger zerolog.Logger,
) *CartUsecase {
	return &CartUsecase{
		server: server,
		guest:  guest,
		auth:   auth,
		store:  st,
		logger: logger,
		mode:   ModeUninitialized,
	}
}

// Modeは現在のモードを返す。
func (u *CartUsecase) Mode() Mode {
	return u.mode
}

// evaluateModeは認証状態から今あるべきモードを決める。
// 「どちらのストアが正か」の判断はここだけに置く。
func (u *CartUsecase) evaluateMode() Mode {
	if u.auth.IsAuthenticated() && u.auth.IsBuyer() {
		return ModeServer
	}
	return ModeGuest
}

// backingは現在のモードの裏付けストアを返す。
func (u *CartUsecase) backing() repo.CartRepository {
	if u.mode == ModeServer {
		return u.server
	}
	return u.guest
}

// OnAuthChangedは認証状態が変わるたびに呼ぶ。
// モードを再評価し、表示を新しい正のストアの全量で作り直す。
// サーバモードから外れるときは、別の身元のカートを
// 引き継いで見せないよう先に表示を空にする。
func (u *CartUsecase) OnAuthChanged(ctx context.Context) error {
	prev := u.mode
	next := u.evaluateMode()
	if prev == ModeServer && next != ModeServer {
		u.store.ClearCart()
	}
	u.mode = next
	return u.Load(ctx)
}

// Loadは現在の正のストアから全量を読み直して表示を上書きする（冪等）。
// 失敗時は表示中の状態に触れない。
func (u *CartUsecase) Load(ctx context.Context) error {
	u.store.SetLoading(true)
	defer u.store.SetLoading(false)

	u.mode = u.evaluateMode()

	cart, err := u.backing().Fetch(ctx)
	if err != nil {
		if u.mode == ModeServer && errors.Is(err, apiclient.ErrAuthenticationRequired) {
			// セッション喪失はエラーではなく「ゲストになった」として続行
			u.fallbackToGuest("load")
			cart, err = u.guest.Fetch(ctx)
		}
		if err != nil {
			return err
		}
	}

	u.store.SetCart(cart)
	return nil
}

// Addは明細を追加する。
// サーバ呼び出しが認証エラーで落ちた場合だけゲスト経路へフォールバックし、
// それ以外の失敗は表示を変えずにそのまま返す。
func (u *CartUsecase) Add(ctx context.Context, item model.CartItem) error {
	if item.Quantity < 1 {
		return repo.ErrInvalidQuantity
	}

	u.store.SetLoading(true)
	defer u.store.SetLoading(false)

	u.mode = u.evaluateMode()

	if u.mode == ModeServer {
		cart, err := u.server.Add(ctx, item)
		if err == nil {
			u.store.SetCart(cart)
			return nil
		}
		if !errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return err
		}
		u.fallbackToGuest("add")
	}

	cart, err := u.guest.Add(ctx, item)
	if err != nil {
		return err
	}
	u.store.SetCart(cart)
	return nil
}

// Updateは数量を変更する。0以下は明細ごと削除になる。
func (u *CartUsecase) Update(ctx context.Context, itemID string, quantity int64) error {
	u.store.SetLoading(true)
	defer u.store.SetLoading(false)

	u.mode = u.evaluateMode()

	if u.mode == ModeServer {
		cart, err := u.server.UpdateQuantity(ctx, itemID, quantity)
		if err == nil {
			u.store.SetCart(cart)
			return nil
		}
		if !errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return err
		}
		u.fallbackToGuest("update")
	}

	cart, err := u.guest.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		return err
	}
	u.store.SetCart(cart)
	return nil
}

// Removeは明細を削除する。IDはサーバ採番・ローカル採番のどちらでもよい。
func (u *CartUsecase) Remove(ctx context.Context, itemID string) error {
	u.store.SetLoading(true)
	defer u.store.SetLoading(false)

	u.mode = u.evaluateMode()

	if u.mode == ModeServer {
		cart, err := u.server.Remove(ctx, itemID)
		if err == nil {
			u.store.SetCart(cart)
			return nil
		}
		if !errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return err
		}
		u.fallbackToGuest("remove")
	}

	cart, err := u.guest.Remove(ctx, itemID)
	if err != nil {
		return err
	}
	u.store.SetCart(cart)
	return nil
}

// Clearはカートを空にする。
func (u *CartUsecase) Clear(ctx context.Context) error {
	u.store.SetLoading(true)
	defer u.store.SetLoading(false)

	u.mode = u.evaluateMode()

	if u.mode == ModeServer {
		err := u.server.Clear(ctx)
		if err == nil {
			u.store.ClearCart()
			return nil
		}
		if !errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return err
		}
		u.fallbackToGuest("clear")
	}

	if err := u.guest.Clear(ctx); err != nil {
		return err
	}
	u.store.ClearCart()
	return nil
}

// fallbackToGuestは「セッション喪失＝ゲストとして続行」の切り替え。
// セッション自体の消去とログイン遷移はapiclientが済ませている。
func (u *CartUsecase) fallbackToGuest(op string) {
	u.logger.Debug().Str("op", op).Msg("cart: session lost, falling back to guest cart")
	u.mode = ModeGuest
}
