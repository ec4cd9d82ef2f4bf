package apiclient

import (
	"errors"
	"fmt"
)

// ErrAuthenticationRequiredはセッション無効と判定した401。
// この時点でセッションは消去され、ログイン画面への遷移が要求済み。
// カート同期はこのエラーを見てゲストフォールバックする。
var ErrAuthenticationRequired = errors.New("authentication required")

// PermissionErrorはセッションは有効なまま呼び出し元へ返す401。
// 例：購入者プロフィール未設定、ロール不足。元のメッセージとstatusを運ぶ。
type PermissionError struct {
	Status  int
	Message string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func AsPermissionError(err error) (*PermissionError, bool) {
	var pe *PermissionError
	ok := errors.As(err, &pe)
	return pe, ok
}

// APIErrorは2xx・分類済み401以外のHTTPエラー。
// 本文はベストエフォートでパースし、生のボディも保持する。
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}
