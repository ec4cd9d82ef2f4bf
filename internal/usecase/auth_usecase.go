package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"app/internal/apiclient"
	"app/internal/domain/model"
	"app/internal/session"

	"github.com/rs/zerolog"
)

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthUsecaseは認証エンドポイントを包み、セッション保存と
// カートのモード再評価をまとめて行う。
// このリポジトリでの401時の自動refreshはしない（明示的なRefresh呼び出しのみ）。
type AuthUsecase struct {
	api     *apiclient.APIClient
	session *session.Store
	cart    *CartUsecase
	logger  zerolog.Logger
}

// DI
func NewAuthUsecase(api *apiclient.APIClient, sess *session.Store, cart *CartUsecase, logger zerolog.Logger) *AuthUsecase {
	return &AuthUsecase{api: api, session: sess, cart: cart, logger: logger}
}

type LoginInput struct {
	Email    string
	Password string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenDataはlogin/refreshのdata部。
type tokenData struct {
	Token     string     `json:"token"`
	ExpiresAt int64      `json:"expiresAt"` // epoch ミリ秒
	User      model.User `json:"user"`
}

// LoginはPOST /api/auth/loginを呼び、セッションを保存してカートを切り替える。
// ログイン時にゲストカートのサーバ側への取り込みは行わない
// （サーバカートが表示を置き換える。ゲストの明細はローカルに残る）。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (model.User, error) {
	env, err := u.api.Post(ctx, "/api/auth/login", loginRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		// ログイン試行の401は分類に関係なく「資格情報が違う」
		if errors.Is(err, apiclient.ErrAuthenticationRequired) {
			return model.User{}, ErrInvalidCredentials
		}
		if pe, ok := apiclient.AsPermissionError(err); ok {
			u.logger.Debug().Str("message", pe.Message).Msg("auth: login rejected")
			return model.User{}, ErrInvalidCredentials
		}
		if ae, ok := apiclient.AsAPIError(err); ok && ae.Status == 401 {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !env.Success {
		return model.User{}, fmt.Errorf("login failed: %s", env.Message)
	}

	var d tokenData
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return model.User{}, fmt.Errorf("login returned invalid data: %w", err)
	}

	if err := u.session.Save(d.Token, &d.User, time.UnixMilli(d.ExpiresAt)); err != nil {
		return model.User{}, err
	}

	// カートのモード再評価。失敗してもログイン自体は成立させる
	if err := u.cart.OnAuthChanged(ctx); err != nil {
		u.logger.Warn().Err(err).Msg("auth: cart reload after login failed")
	}

	return d.User, nil
}

// LogoutはPOST /api/auth/logoutを呼び、ローカルのセッションを必ず消す。
// サーバ側の失敗はログアウトを妨げない（best effort）。
func (u *AuthUsecase) Logout(ctx context.Context) error {
	if _, err := u.api.Post(ctx, "/api/auth/logout", nil); err != nil {
		u.logger.Debug().Err(err).Msg("auth: server-side logout failed")
	}
	u.session.Clear()
	return u.cart.OnAuthChanged(ctx)
}

// MeはGET /api/auth/meで最新のプロフィールを取得し、保存済みの写しを更新する。
func (u *AuthUsecase) Me(ctx context.Context) (model.User, error) {
	env, err := u.api.Get(ctx, "/api/auth/me")
	if err != nil {
		return model.User{}, err
	}
	if !env.Success {
		return model.User{}, fmt.Errorf("me failed: %s", env.Message)
	}

	var user model.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return model.User{}, fmt.Errorf("me returned invalid data: %w", err)
	}

	if sess := u.session.Current(); sess != nil {
		if err := u.session.Save(sess.Token, &user, sess.ExpiresAt); err != nil {
			return model.User{}, err
		}
	}
	return user, nil
}

// RefreshはPOST /api/auth/refreshで新しいトークンを受け取り保存する。
func (u *AuthUsecase) Refresh(ctx context.Context) error {
	env, err := u.api.Post(ctx, "/api/auth/refresh", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("refresh failed: %s", env.Message)
	}

	var d tokenData
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return fmt.Errorf("refresh returned invalid data: %w", err)
	}

	user := u.session.User()
	if d.User.ID != "" {
		user = &d.User
	}
	return u.session.Save(d.Token, user, time.UnixMilli(d.ExpiresAt))
}
