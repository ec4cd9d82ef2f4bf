package main

import (
	"context"
	"fmt"

	"app/internal/usecase"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmdは購入者・出品者としてログインする
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "ログインしてセッションを保存する",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		user, err := env.auth.Login(context.Background(), usecase.LoginInput{
			Email:    loginEmail,
			Password: loginPassword,
		})
		if err != nil {
			return err
		}

		fmt.Printf("ログインしました: %s (%s)\n", user.Email, user.Role)
		printCart(env.store.Snapshot())
		return nil
	},
}

// logoutCmdはセッションを消してゲストに戻る
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "ログアウトしてゲストに戻る",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if err := env.auth.Logout(context.Background()); err != nil {
			return err
		}

		fmt.Println("ログアウトしました")
		return nil
	},
}

// meCmdは現在のプロフィールを表示する
var meCmd = &cobra.Command{
	Use:   "me",
	Short: "現在のセッションのプロフィールを表示する",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		user, err := env.auth.Me(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s  role=%s\n", user.ID, user.Email, user.Role)
		return nil
	},
}

// refreshCmdはアクセストークンを更新する
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "アクセストークンを更新する",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if err := env.auth.Refresh(context.Background()); err != nil {
			return err
		}

		fmt.Println("トークンを更新しました")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "メールアドレス")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "パスワード")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
