package devserver

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type addCartRequest struct {
	InventoryID string `json:"inventoryId"`
	Quantity    int64  `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// GET /api/buyer/cart
func (s *Server) getCart(c echo.Context) error {
	user := currentUser(c)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return okJSON(c, s.buildCart(s.state.carts[user.ID]))
}

// POST /api/buyer/cart/add（同一出品は数量加算）
func (s *Server) addToCart(c echo.Context) error {
	user := currentUser(c)

	var req addCartRequest
	if err := c.Bind(&req); err != nil {
		return failJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return failJSON(c, http.StatusBadRequest, "invalid quantity")
	}

	l, ok := s.state.catalog[req.InventoryID]
	if !ok {
		return failJSON(c, http.StatusBadRequest, "unknown inventory")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	items := s.state.carts[user.ID]
	merged := false
	for i := range items {
		if items[i].InventoryID == req.InventoryID {
			items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, model.CartItem{
			ID:          "ci-" + uuid.NewString(),
			InventoryID: l.InventoryID,
			Quantity:    req.Quantity,
			UnitPrice:   l.UnitPrice,
			Currency:    l.Currency,
			ProductName: l.ProductName,
			PartNumber:  l.PartNumber,
			SellerName:  l.SellerName,
		})
	}
	s.state.carts[user.ID] = items

	return okJSON(c, s.buildCart(items))
}

// PUT /api/buyer/cart/item/:id
func (s *Server) updateCartItem(c echo.Context) error {
	user := currentUser(c)
	itemID := c.Param("id")

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return failJSON(c, http.StatusBadRequest, "invalid body")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	items := s.state.carts[user.ID]
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return failJSON(c, http.StatusNotFound, "not found")
	}

	//0以下は明細ごと削除
	if req.Quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = req.Quantity
	}
	s.state.carts[user.ID] = items

	return okJSON(c, s.buildCart(items))
}

// DELETE /api/buyer/cart/item/:id
func (s *Server) removeCartItem(c echo.Context) error {
	user := currentUser(c)
	itemID := c.Param("id")

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	items := s.state.carts[user.ID]
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return failJSON(c, http.StatusNotFound, "not found")
	}

	items = append(items[:idx], items[idx+1:]...)
	s.state.carts[user.ID] = items

	return okJSON(c, s.buildCart(items))
}

// DELETE /api/buyer/cart
func (s *Server) clearCart(c echo.Context) error {
	user := currentUser(c)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	delete(s.state.carts, user.ID)

	return okJSON(c, s.buildCart(nil))
}

// buildCartは明細から応答用のカートを組む。
// 手数料は表示用の平準レートで、精算の計算ではない。
func (s *Server) buildCart(items []model.CartItem) model.Cart {
	out := make([]model.CartItem, len(items))
	copy(out, items)

	var count, subtotal int64
	currency := ""
	for _, it := range out {
		count += it.Quantity
		subtotal += it.UnitPrice * it.Quantity
		if currency == "" {
			currency = it.Currency
		}
	}
	commission := subtotal * int64(s.cfg.CommissionRate) / 100

	return model.Cart{
		Items: out,
		Summary: model.CartSummary{
			ItemCount:       count,
			Subtotal:        subtotal,
			CommissionTotal: commission,
			GrandTotal:      subtotal + commission,
		},
		Currency: currency,
	}
}
