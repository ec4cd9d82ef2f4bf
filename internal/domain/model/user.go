package model

type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// Userはバックエンドが返す利用者プロフィール。
// セッションと一緒にローカル保存される表示用の写しで、正本はバックエンド側。
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// IsBuyerは購入者ロールかどうか。
// サーバカートは購入者セッションでのみ使える。
func (u *User) IsBuyer() bool {
	return u != nil && u.Role == RoleBuyer
}
