package model

import "time"

// Sessionは保存済みの認証状態。
// トークンは「存在していて期限内」か「無いものとして扱う」かの二択で、
// 中間状態は作らない。
type Session struct {
	Token     string
	User      *User
	ExpiresAt time.Time // ゼロ値は期限情報なし
}
