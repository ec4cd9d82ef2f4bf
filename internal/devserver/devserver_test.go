package devserver_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/apiclient"
	"app/internal/config"
	"app/internal/devserver"
	"app/internal/domain/model"
	infraRepo "app/internal/infra/repository"
	"app/internal/localstore"
	"app/internal/session"
	"app/internal/store"
	"app/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNavigatorはログイン遷移の回数だけ数える
type recordingNavigator struct {
	calls int
}

func (n *recordingNavigator) ToLogin() { n.calls++ }

// clientEnvはモックバックエンドに向けたクライアント一式
type clientEnv struct {
	srv     *devserver.Server
	sess    *session.Store
	nav     *recordingNavigator
	api     *apiclient.APIClient
	server  *infraRepo.ServerCartRepository
	guest   *infraRepo.GuestCartRepository
	store   *store.CartStore
	cart    *usecase.CartUsecase
	auth    *usecase.AuthUsecase
}

func devConfig() config.DevConfig {
	return config.DevConfig{
		Port:               "0",
		JWTSecret:          "test-secret",
		AccessTTL:          15 * time.Minute,
		CommissionRate:     10,
		SeedBuyerEmail:     "buyer@example.com",
		SeedBuyerPassword:  "buyer-pass",
		SeedSellerEmail:    "seller@example.com",
		SeedSellerPassword: "seller-pass",
	}
}

func newClientEnv(t *testing.T) *clientEnv {
	t.Helper()

	srv, err := devserver.New(devConfig(), zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	ls, err := localstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	sess := session.NewStore(ls)
	nav := &recordingNavigator{}
	api := apiclient.New(ts.URL, sess, nav, zerolog.Nop())

	serverRepo := infraRepo.NewServerCartRepository(api)
	guestRepo := infraRepo.NewGuestCartRepository(ls, "JPY")

	st := store.New()
	cartUC := usecase.NewCartUsecase(serverRepo, guestRepo, sess, st, zerolog.Nop())
	authUC := usecase.NewAuthUsecase(api, sess, cartUC, zerolog.Nop())

	return &clientEnv{
		srv:    srv,
		sess:   sess,
		nav:    nav,
		api:    api,
		server: serverRepo,
		guest:  guestRepo,
		store:  st,
		cart:   cartUC,
		auth:   authUC,
	}
}

func TestRoundTrip_BuyerLoginAndServerCart(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	user, err := env.auth.Login(ctx, usecase.LoginInput{Email: "buyer@example.com", Password: "buyer-pass"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)
	require.True(t, env.sess.IsAuthenticated())

	//サーバモードで追加。応答のカートがそのまま表示になる
	require.NoError(t, env.cart.Add(ctx, cartItem("INV-1001", 2)))
	assert.Equal(t, usecase.ModeServer, env.cart.Mode())

	snap := env.store.Snapshot().Cart
	require.Len(t, snap.Items, 1)
	assert.True(t, strings.HasPrefix(snap.Items[0].ID, "ci-"))
	assert.Equal(t, int64(2), snap.Items[0].Quantity)
	assert.Equal(t, "ブレーキパッド フロント", snap.Items[0].ProductName)
	//集計はバックエンドの計算（手数料10%）
	assert.Equal(t, int64(11600), snap.Summary.Subtotal)
	assert.Equal(t, int64(1160), snap.Summary.CommissionTotal)
	assert.Equal(t, int64(12760), snap.Summary.GrandTotal)

	//同じ出品の追加は数量加算
	require.NoError(t, env.cart.Add(ctx, cartItem("INV-1001", 1)))
	snap = env.store.Snapshot().Cart
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(3), snap.Items[0].Quantity)
}

func TestRoundTrip_UpdateAndRemove(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, usecase.LoginInput{Email: "buyer@example.com", Password: "buyer-pass"})
	require.NoError(t, err)

	require.NoError(t, env.cart.Add(ctx, cartItem("INV-1001", 2)))
	require.NoError(t, env.cart.Add(ctx, cartItem("INV-2001", 1)))

	snap := env.store.Snapshot().Cart
	require.Len(t, snap.Items, 2)
	padID := snap.Items[0].ID

	//数量変更
	require.NoError(t, env.cart.Update(ctx, padID, 4))
	snap = env.store.Snapshot().Cart
	assert.Equal(t, int64(4), snap.Items[0].Quantity)

	//0で明細ごと削除
	require.NoError(t, env.cart.Update(ctx, padID, 0))
	snap = env.store.Snapshot().Cart
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "INV-2001", snap.Items[0].InventoryID)

	//残りも削除
	require.NoError(t, env.cart.Remove(ctx, snap.Items[0].ID))
	assert.Empty(t, env.store.Snapshot().Cart.Items)
}

// 出品者セッションの購入者エンドポイントは「No buyer ID found」の401。
// セッションは維持されなければならない。
func TestRoundTrip_SellerGetsPermissionError(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	user, err := env.auth.Login(ctx, usecase.LoginInput{Email: "seller@example.com", Password: "seller-pass"})
	require.NoError(t, err)
	require.Equal(t, model.RoleSeller, user.Role)

	//サーバカートを直接叩くと権限401
	_, err = env.server.Fetch(ctx)
	pe, ok := apiclient.AsPermissionError(err)
	require.True(t, ok)
	assert.Contains(t, pe.Message, "No buyer ID found")

	//セッションはそのまま、ログイン遷移もしない
	assert.True(t, env.sess.IsAuthenticated())
	assert.Equal(t, 0, env.nav.calls)

	//同期機としては出品者はゲスト扱い
	require.NoError(t, env.cart.Load(ctx))
	assert.Equal(t, usecase.ModeGuest, env.cart.Mode())
}

// 失効トークンでのサーバ追加はゲストカートへのフォールバックになる
func TestRoundTrip_ExpiredTokenFallsBackToGuest(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	user, err := env.auth.Login(ctx, usecase.LoginInput{Email: "buyer@example.com", Password: "buyer-pass"})
	require.NoError(t, err)

	//失効済みトークンを差し込む（保存上の期限は未来にして「所持」状態を作る）
	expired, _, err := env.srv.IssueToken(user, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, env.sess.Save(expired, &user, time.Now().Add(time.Hour)))

	require.NoError(t, env.cart.Add(ctx, cartItem("INV-1001", 2)))

	//ゲスト明細として入り、エラー状態にはならない
	assert.Equal(t, usecase.ModeGuest, env.cart.Mode())
	snap := env.store.Snapshot().Cart
	require.Len(t, snap.Items, 1)
	assert.True(t, strings.HasPrefix(snap.Items[0].ID, "local-"))
	assert.Equal(t, int64(2), snap.Items[0].Quantity)

	//セッションは消され、ログイン遷移が要求されている
	assert.False(t, env.sess.IsAuthenticated())
	assert.Equal(t, 1, env.nav.calls)
}

func TestRoundTrip_MeAndRefresh(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, usecase.LoginInput{Email: "buyer@example.com", Password: "buyer-pass"})
	require.NoError(t, err)

	me, err := env.auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", me.Email)

	require.NoError(t, env.auth.Refresh(ctx))
	assert.True(t, env.sess.IsAuthenticated())
}

func TestRoundTrip_BadCredentials(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, usecase.LoginInput{Email: "buyer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
	assert.False(t, env.sess.IsAuthenticated())
}

func TestRoundTrip_LogoutEmptiesCart(t *testing.T) {
	env := newClientEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, usecase.LoginInput{Email: "buyer@example.com", Password: "buyer-pass"})
	require.NoError(t, err)
	require.NoError(t, env.cart.Add(ctx, cartItem("INV-1002", 1)))
	require.NotEmpty(t, env.store.Snapshot().Cart.Items)

	require.NoError(t, env.auth.Logout(ctx))

	//前の購入者のサーバカートは見えない
	assert.False(t, env.sess.IsAuthenticated())
	assert.Equal(t, usecase.ModeGuest, env.cart.Mode())
	assert.Empty(t, env.store.Snapshot().Cart.Items)
}

func cartItem(inv string, qty int64) model.CartItem {
	return model.CartItem{InventoryID: inv, Quantity: qty}
}
