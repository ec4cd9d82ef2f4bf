package devserver

import (
	"sync"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// devUserは初期投入ユーザー。
type devUser struct {
	ID           string
	Email        string
	DisplayName  string
	Role         model.Role
	PasswordHash []byte
}

func (u *devUser) toModel() model.User {
	return model.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// listingは出品カタログの1件。
type listing struct {
	InventoryID string
	ProductName string
	PartNumber  string
	SellerName  string
	UnitPrice   int64
	Currency    string
}

// memoryStateはモックバックエンドの全状態。
type memoryState struct {
	mu      sync.Mutex
	users   map[string]*devUser         // email -> user
	byID    map[string]*devUser         // id -> user
	carts   map[string][]model.CartItem // userID -> items
	catalog map[string]listing          // inventoryID -> listing
}

func newMemoryState(cfg config.DevConfig) (*memoryState, error) {
	st := &memoryState{
		users:   map[string]*devUser{},
		byID:    map[string]*devUser{},
		carts:   map[string][]model.CartItem{},
		catalog: map[string]listing{},
	}

	//初期ユーザー（購入者と出品者）
	if err := st.seedUser(cfg.SeedBuyerEmail, cfg.SeedBuyerPassword, "Dev Buyer", model.RoleBuyer); err != nil {
		return nil, err
	}
	if err := st.seedUser(cfg.SeedSellerEmail, cfg.SeedSellerPassword, "Dev Seller", model.RoleSeller); err != nil {
		return nil, err
	}

	//出品カタログ
	for _, l := range []listing{
		{InventoryID: "INV-1001", ProductName: "ブレーキパッド フロント", PartNumber: "BP-2210F", SellerName: "関東パーツ商会", UnitPrice: 5800, Currency: "JPY"},
		{InventoryID: "INV-1002", ProductName: "オイルフィルター", PartNumber: "OF-90915", SellerName: "関東パーツ商会", UnitPrice: 980, Currency: "JPY"},
		{InventoryID: "INV-2001", ProductName: "ワイパーブレード 650mm", PartNumber: "WB-650", SellerName: "北陸オート部品", UnitPrice: 1480, Currency: "JPY"},
	} {
		st.catalog[l.InventoryID] = l
	}

	return st, nil
}

func (st *memoryState) seedUser(email, password, name string, role model.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &devUser{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		Role:         role,
		PasswordHash: hash,
	}
	st.users[email] = u
	st.byID[u.ID] = u
	return nil
}

// findByEmailはメールでユーザーを探す。
func (st *memoryState) findByEmail(email string) (*devUser, bool) {
	u, ok := st.users[email]
	return u, ok
}

// findByIDはIDでユーザーを探す。
func (st *memoryState) findByID(id string) (*devUser, bool) {
	u, ok := st.byID[id]
	return u, ok
}
