package store

import (
	"sync"

	"app/internal/domain/model"
)

// CartStateはUIが読む唯一のカート状態。
// 書き込むのはカート同期だけで、UIは読むだけ。
type CartState struct {
	Cart    model.Cart
	Loading bool
}

// CartStoreは見えているカートの置き場。
type CartStore struct {
	mu    sync.RWMutex
	state CartState
}

func New() *CartStore {
	return &CartStore{}
}

// SetCartは表示を常に全量で置き換える（部分マージはしない）。
func (s *CartStore) SetCart(cart model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Cart = cart
}

// ClearCartは表示を空のカートに戻す。
func (s *CartStore) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Cart = model.Cart{}
}

// SetLoadingは操作中フラグ。UIはこの間の操作を止める。
func (s *CartStore) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = v
}

// Snapshotは現在の状態の写しを返す。
func (s *CartStore) Snapshot() CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
