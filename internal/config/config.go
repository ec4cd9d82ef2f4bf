package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはクライアント側の設定
type Config struct {
	APIBaseURL string // バックエンドのベースURL
	StateDir   string // localstoreの置き場（ブラウザのlocalStorage相当）
	Currency   string // ゲストカートの既定通貨
}

// Loadは環境変数からクライアント設定を読む
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL: os.Getenv("API_BASE_URL"),
		StateDir:   os.Getenv("STATE_DIR"),
		Currency:   os.Getenv("CURRENCY"),
	}

	//必須チェック
	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.StateDir == "" {
		return Config{}, fmt.Errorf("STATE_DIR is required")
	}
	if cfg.Currency == "" {
		cfg.Currency = "JPY"
	}

	return cfg, nil
}

// DevConfigは開発用モックバックエンドの設定
type DevConfig struct {
	Port           string        // サーバーポート
	JWTSecret      string        // JWT署名シークレット
	AccessTTL      time.Duration // アクセストークンの有効期間
	CommissionRate int           // 手数料率（%表示用の平準値。精算ロジックではない）

	SeedBuyerEmail     string // 初期投入の購入者
	SeedBuyerPassword  string
	SeedSellerEmail    string // 初期投入の出品者（権限401の再現用）
	SeedSellerPassword string
}

// LoadDevは環境変数からモックバックエンド設定を読む
func LoadDev() (DevConfig, error) {
	cfg := DevConfig{
		Port:               os.Getenv("PORT"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTTL:          15 * time.Minute,
		CommissionRate:     10,
		SeedBuyerEmail:     envOr("SEED_BUYER_EMAIL", "buyer@example.com"),
		SeedBuyerPassword:  envOr("SEED_BUYER_PASSWORD", "buyer-pass"),
		SeedSellerEmail:    envOr("SEED_SELLER_EMAIL", "seller@example.com"),
		SeedSellerPassword: envOr("SEED_SELLER_PASSWORD", "seller-pass"),
	}

	//必須チェック
	if cfg.Port == "" {
		return DevConfig{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return DevConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("ACCESS_TTL_MINUTES"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return DevConfig{}, fmt.Errorf("ACCESS_TTL_MINUTES must be number: %w", err)
		}
		cfg.AccessTTL = time.Duration(m) * time.Minute
	}
	if v := os.Getenv("COMMISSION_RATE"); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil {
			return DevConfig{}, fmt.Errorf("COMMISSION_RATE must be number: %w", err)
		}
		cfg.CommissionRate = r
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
