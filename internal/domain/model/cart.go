package model

// CartItemはカートの明細。
// 商品そのものではなく「特定の出品者の出品（在庫）」への数量を表す。
// 価格と表示用メタデータは追加時点のスナップショット。
type CartItem struct {
	ID          string `json:"id"`          // サーバ採番ID または "local-" 付きローカルID
	InventoryID string `json:"inventoryId"` // 出品（在庫）参照
	Quantity    int64  `json:"quantity"`    // 1以上。0になった明細は保持せず削除する
	UnitPrice   int64  `json:"unitPrice"`   // 追加時点の単価（最小通貨単位）
	Currency    string `json:"currency"`
	ProductName string `json:"productName"` // 表示用スナップショット
	PartNumber  string `json:"partNumber"`
	SellerName  string `json:"sellerName"`
}

// CartSummaryはカート全体の集計。
// サーバモードではバックエンドの計算結果をそのまま表示する。
type CartSummary struct {
	ItemCount       int64 `json:"itemCount"`
	Subtotal        int64 `json:"subtotal"`
	CommissionTotal int64 `json:"commissionTotal"`
	GrandTotal      int64 `json:"grandTotal"`
}

// Cartは見えているカートの完全なスナップショット。
// 常にどちらか一方の裏付けストア（サーバ or ゲスト）の全量と一致する。
type Cart struct {
	Items    []CartItem  `json:"items"`
	Summary  CartSummary `json:"summary"`
	Currency string      `json:"currency"`
}

// GuestCartFileはローカル保存のゲストカート1キー分の形。
// キーが無いことは「空のカート」であってエラーではない。
type GuestCartFile struct {
	Items       []CartItem `json:"items"`
	Currency    string     `json:"currency"`
	LastUpdated string     `json:"lastUpdated"` // ISO-8601
}
