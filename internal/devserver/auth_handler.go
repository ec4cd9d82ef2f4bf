package devserver

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponseはlogin/refreshのdata部。期限はepochミリ秒で返す。
type tokenResponse struct {
	Token     string     `json:"token"`
	ExpiresAt int64      `json:"expiresAt"`
	User      model.User `json:"user"`
}

// POST /api/auth/login
func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return failJSON(c, http.StatusBadRequest, "invalid body")
	}

	user, ok := s.state.findByEmail(req.Email)
	if !ok {
		return failJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	//パスワード照合
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		return failJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.IssueToken(user.toModel(), s.cfg.AccessTTL)
	if err != nil {
		return failJSON(c, http.StatusInternalServerError, "token issue failed")
	}

	return okJSON(c, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
		User:      user.toModel(),
	})
}

// POST /api/auth/logout
// モックはサーバ側に消すものが無いので受理だけする。
func (s *Server) logout(c echo.Context) error {
	return okJSON(c, map[string]bool{"loggedOut": true})
}

// GET /api/auth/me
func (s *Server) me(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return failJSON(c, http.StatusUnauthorized, "authentication required")
	}
	return okJSON(c, user.toModel())
}

// POST /api/auth/refresh
func (s *Server) refresh(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return failJSON(c, http.StatusUnauthorized, "authentication required")
	}

	token, expiresAt, err := s.IssueToken(user.toModel(), s.cfg.AccessTTL)
	if err != nil {
		return failJSON(c, http.StatusInternalServerError, "token issue failed")
	}

	return okJSON(c, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.UnixMilli(),
		User:      user.toModel(),
	})
}
