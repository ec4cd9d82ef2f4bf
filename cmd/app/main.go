package main

import (
	"fmt"
	"os"

	"app/internal/apiclient"
	"app/internal/config"
	infraRepo "app/internal/infra/repository"
	"app/internal/localstore"
	"app/internal/session"
	"app/internal/store"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// appEnvはCLI全体で共有する依存の束。
type appEnv struct {
	cfg     config.Config
	session *session.Store
	store   *store.CartStore
	cart    *usecase.CartUsecase
	auth    *usecase.AuthUsecase
}

// cliNavigatorはログイン画面相当。CLIでは案内を出すだけ。
type cliNavigator struct{}

func (cliNavigator) ToLogin() {
	fmt.Fprintln(os.Stderr, "セッションが無効になりました。`app login` でログインし直してください。")
}

// buildEnvは設定を読んで依存を手で組む。
func buildEnv() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := newLogger()

	ls, err := localstore.New(cfg.StateDir, logger)
	if err != nil {
		return nil, err
	}

	sess := session.NewStore(ls)
	api := apiclient.New(cfg.APIBaseURL, sess, cliNavigator{}, logger)

	serverRepo := infraRepo.NewServerCartRepository(api)
	guestRepo := infraRepo.NewGuestCartRepository(ls, cfg.Currency)

	st := store.New()
	cartUC := usecase.NewCartUsecase(serverRepo, guestRepo, sess, st, logger)
	authUC := usecase.NewAuthUsecase(api, sess, cartUC, logger)

	return &appEnv{
		cfg:     cfg,
		session: sess,
		store:   st,
		cart:    cartUC,
		auth:    authUC,
	}, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

var rootCmd = &cobra.Command{
	Use:   "app",
	Short: "自動車部品マーケットプレイスのクライアントCLI",
	Long: `自動車部品マーケットプレイスのクライアント。

ログイン済み購入者はサーバカート、それ以外はローカルの
ゲストカートを同じコマンドで操作できる。`,
	SilenceUsage: true,
}

func main() {
	//.envは任意（無ければ環境変数だけで動く）
	_ = godotenv.Load()

	rootCmd.AddCommand(loginCmd, logoutCmd, meCmd, refreshCmd, cartCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
