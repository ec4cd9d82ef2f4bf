package main

import (
	"context"
	"fmt"

	"app/internal/domain/model"
	"app/internal/store"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "カートを操作する（ログイン状態で正のストアが切り替わる）",
}

var (
	addInventory string
	addQty       int64
	addPrice     int64
	addName      string
	addPart      string
	addSeller    string

	updateItemID string
	updateQty    int64

	removeItemID string
)

// cart add
var cartAddCmd = &cobra.Command{
	Use:   "add",
	Short: "出品をカートへ追加する（同じ出品は数量加算）",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		err = env.cart.Add(context.Background(), model.CartItem{
			InventoryID: addInventory,
			Quantity:    addQty,
			UnitPrice:   addPrice,
			ProductName: addName,
			PartNumber:  addPart,
			SellerName:  addSeller,
		})
		if err != nil {
			return err
		}

		printCart(env.store.Snapshot())
		return nil
	},
}

// cart list
var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "カートの全量を読み直して表示する",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if err := env.cart.Load(context.Background()); err != nil {
			return err
		}

		fmt.Printf("mode=%s\n", env.cart.Mode())
		printCart(env.store.Snapshot())
		return nil
	},
}

// cart update
var cartUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "明細の数量を変更する（0で削除）",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if err := env.cart.Update(context.Background(), updateItemID, updateQty); err != nil {
			return err
		}

		printCart(env.store.Snapshot())
		return nil
	},
}

// cart remove
var cartRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "明細を削除する",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if err := env.cart.Remove(context.Background(), removeItemID); err != nil {
			return err
		}

		printCart(env.store.Snapshot())
		return nil
	},
}

// cart clear
var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "カートを空にする",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		if err := env.cart.Clear(context.Background()); err != nil {
			return err
		}

		fmt.Println("カートを空にしました")
		return nil
	},
}

// printCartは見えているカートを1行1明細で出す。
func printCart(state store.CartState) {
	cart := state.Cart
	if len(cart.Items) == 0 {
		fmt.Println("(カートは空です)")
		return
	}

	for _, it := range cart.Items {
		fmt.Printf("%s  %s x%d  %d %s  [%s] %s\n",
			it.ID, it.ProductName, it.Quantity, it.UnitPrice*it.Quantity, it.Currency, it.PartNumber, it.SellerName)
	}
	fmt.Printf("点数=%d 小計=%d 手数料=%d 合計=%d %s\n",
		cart.Summary.ItemCount, cart.Summary.Subtotal,
		cart.Summary.CommissionTotal, cart.Summary.GrandTotal, cart.Currency)
}

func init() {
	cartAddCmd.Flags().StringVar(&addInventory, "inventory", "", "出品（在庫）ID")
	cartAddCmd.Flags().Int64Var(&addQty, "qty", 1, "数量")
	cartAddCmd.Flags().Int64Var(&addPrice, "price", 0, "単価（ゲストカートの表示用）")
	cartAddCmd.Flags().StringVar(&addName, "name", "", "商品名（ゲストカートの表示用）")
	cartAddCmd.Flags().StringVar(&addPart, "part", "", "品番（ゲストカートの表示用）")
	cartAddCmd.Flags().StringVar(&addSeller, "seller", "", "出品者名（ゲストカートの表示用）")
	_ = cartAddCmd.MarkFlagRequired("inventory")

	cartUpdateCmd.Flags().StringVar(&updateItemID, "item", "", "明細ID")
	cartUpdateCmd.Flags().Int64Var(&updateQty, "qty", 0, "新しい数量（0で削除）")
	_ = cartUpdateCmd.MarkFlagRequired("item")

	cartRemoveCmd.Flags().StringVar(&removeItemID, "item", "", "明細ID")
	_ = cartRemoveCmd.MarkFlagRequired("item")

	cartCmd.AddCommand(cartAddCmd, cartListCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd)
}
