// Package devserverは開発用のモックバックエンド。
// 実バックエンドと同じ封筒 {success, data, message} と401文言を再現し、
// クライアントをオフラインで動かすためとラウンドトリップテストのために使う。
// データはすべてメモリ上で、プロセスを落とすと消える。
package devserver

import (
	"encoding/json"
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Server struct {
	e      *echo.Echo
	cfg    config.DevConfig
	state  *memoryState
	logger zerolog.Logger
}

// DI
func New(cfg config.DevConfig, logger zerolog.Logger) (*Server, error) {
	state, err := newMemoryState(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		e:      echo.New(),
		cfg:    cfg,
		state:  state,
		logger: logger,
	}
	s.e.HideBanner = true
	s.registerRoutes()
	return s, nil
}

// /api 以下を登録
func (s *Server) registerRoutes() {
	api := s.e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/logout", s.logout, s.requireAuth)
	auth.GET("/me", s.me, s.requireAuth)
	auth.POST("/refresh", s.refresh, s.requireAuth)

	cart := api.Group("/buyer/cart")
	cart.Use(s.requireAuth, s.requireBuyer)
	cart.GET("", s.getCart)
	cart.POST("/add", s.addToCart)
	cart.PUT("/item/:id", s.updateCartItem)
	cart.DELETE("/item/:id", s.removeCartItem)
	cart.DELETE("", s.clearCart)
}

// Handlerはテストがhttptestに渡すためのハンドラ。
func (s *Server) Handler() http.Handler {
	return s.e
}

// Startはサーバを起動する。
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// 封筒ヘルパー
func okJSON(c echo.Context, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return failJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, model.Envelope{Success: true, Data: b})
}

func failJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, model.Envelope{Success: false, Message: message})
}
