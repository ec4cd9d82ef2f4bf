package session

import (
	"time"

	"app/internal/domain/model"
	"app/internal/localstore"

	"github.com/golang-jwt/jwt/v4"
)

// localstoreのキー。トークン・プロフィール・期限は別キーで持つ。
const (
	keyToken  = "auth_token"
	keyUser   = "auth_user"
	keyExpiry = "auth_expiry" // epoch ミリ秒
)

// Storeはプロセス全体で1つの認証状態を管理する。
// 明示的なSave（ログイン時）とClear（ログアウト・失効検出時）だけが書き込む。
type Store struct {
	ls  *localstore.Store
	now func() time.Time
}

// DI
func NewStore(ls *localstore.Store) *Store {
	return &Store{ls: ls, now: time.Now}
}

// Saveはログイン結果を保存する。
func (s *Store) Save(token string, user *model.User, expiresAt time.Time) error {
	if err := s.ls.Set(keyToken, token); err != nil {
		return err
	}
	if user != nil {
		if err := s.ls.Set(keyUser, user); err != nil {
			return err
		}
	}
	if !expiresAt.IsZero() {
		return s.ls.Set(keyExpiry, expiresAt.UnixMilli())
	}
	// 期限情報なしの保存では古い期限キーを残さない
	return s.ls.Remove(keyExpiry)
}

// Currentは有効なセッションを返す。無い・期限切れはnil。
// 期限切れを検出した時点で保存値も消す（部分状態を残さない）。
func (s *Store) Current() *model.Session {
	var token string
	ok, err := s.ls.Get(keyToken, &token)
	if err != nil || !ok || token == "" {
		return nil
	}

	exp := s.expiry(token)
	if !exp.IsZero() && !s.now().Before(exp) {
		s.Clear()
		return nil
	}

	sess := &model.Session{Token: token, ExpiresAt: exp}

	var user model.User
	if ok, err := s.ls.Get(keyUser, &user); err == nil && ok {
		sess.User = &user
	}
	return sess
}

// Tokenは有効なbearerトークンを返す。無ければ空文字。
func (s *Store) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

// Userは保存済みプロフィールを返す。セッションが無ければnil。
func (s *Store) User() *model.User {
	if sess := s.Current(); sess != nil {
		return sess.User
	}
	return nil
}

// Clearはセッションの保存値をすべて消す。
func (s *Store) Clear() {
	_ = s.ls.Remove(keyToken)
	_ = s.ls.Remove(keyUser)
	_ = s.ls.Remove(keyExpiry)
}

// IsAuthenticatedは有効なセッションがあるか。
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// IsBuyerは購入者ロールのセッションか。
func (s *Store) IsBuyer() bool {
	if sess := s.Current(); sess != nil {
		return sess.User.IsBuyer()
	}
	return false
}

// expiryは保存済みの期限を返す。
// 期限キーが無ければJWTのexpを検証なしで覗く（UX用途であり安全境界ではない）。
func (s *Store) expiry(token string) time.Time {
	var millis int64
	if ok, err := s.ls.Get(keyExpiry, &millis); err == nil && ok && millis > 0 {
		return time.UnixMilli(millis)
	}
	return peekJWTExpiry(token)
}

// peekJWTExpiryは署名検証をせずにexpクレームだけ読む。
// 読めないトークンは期限情報なしとして扱う。
func peekJWTExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}
	}
	return time.Unix(int64(exp), 0)
}
