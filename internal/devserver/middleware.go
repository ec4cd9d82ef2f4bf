package devserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const ctxUserKey = "dev_user"

// IssueTokenはHS256でアクセストークンを発行する。
// ttlに負値を渡せば失効済みトークンになる（テスト用）。
func (s *Server) IssueToken(user model.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// requireAuthはbearerトークンを検証するミドルウェア。
// 401の文言は実バックエンドの観測値に合わせる（クライアントの分類が依存する）。
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" {
			return failJSON(c, http.StatusUnauthorized, "authentication required")
		}

		//Bearer形式か確認してtokenを抜く
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return failJSON(c, http.StatusUnauthorized, "invalid token")
		}
		rawToken := strings.TrimSpace(parts[1])
		if rawToken == "" {
			return failJSON(c, http.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(s.cfg.JWTSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return failJSON(c, http.StatusUnauthorized, "token expired")
			}
			return failJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if token == nil || !token.Valid {
			return failJSON(c, http.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return failJSON(c, http.StatusUnauthorized, "invalid token")
		}
		sub, _ := claims["sub"].(string)

		user, ok := s.state.findByID(sub)
		if !ok {
			return failJSON(c, http.StatusUnauthorized, "invalid token")
		}

		c.Set(ctxUserKey, user)
		return next(c)
	}
}

// requireBuyerは購入者専用エンドポイントのガード。
// 実バックエンドは購入者プロフィールの紐付けが無いと
// この文言の401を返す（トークン自体は有効なのでセッションを壊してはいけない）。
func (s *Server) requireBuyer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if user == nil || user.Role != model.RoleBuyer {
			return failJSON(c, http.StatusUnauthorized, "No buyer ID found for this account")
		}
		return next(c)
	}
}

func currentUser(c echo.Context) *devUser {
	u, _ := c.Get(ctxUserKey).(*devUser)
	return u
}
