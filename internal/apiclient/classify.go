package apiclient

import (
	"net/http"
	"strings"
)

// 401本文の文言からトークン起因か権限起因かを判定する語彙。
// バックエンドの実際の文言に依存する既知のヒューリスティックで、
// 契約としてこのまま固定する（構造化エラーコード化はバックエンド側の課題）。
var tokenTerms = []string{"token", "authentication", "expired", "bearer", "jwt"}

var permissionTerms = []string{
	"buyer id", "buyerid", "no buyer",
	"seller id", "sellerid", "no seller",
	"permission", "role", "access denied",
}

// isTokenErrorMessageはメッセージが認証・失効・資格情報の語彙に当たるか。
func isTokenErrorMessage(lower string) bool {
	for _, t := range tokenTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	if strings.Contains(lower, "invalid") &&
		(strings.Contains(lower, "token") || strings.Contains(lower, "credentials")) {
		return true
	}
	return false
}

// isPermissionErrorMessageはメッセージが本人性・ロール・権限の語彙に当たるか。
func isPermissionErrorMessage(lower string) bool {
	for _, t := range permissionTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// classify401は401応答を「トークンエラー」か「権限エラー」に分類する。
// 素朴に401=ログアウトにすると、購入者プロフィール未設定のような
// データ起因の401でセッションを壊してしまうため、この分類を挟む。
//
//   - トークンエラー: セッション消去＋ログイン遷移＋ErrAuthenticationRequired
//   - 権限エラー: セッション維持のままPermissionErrorを返す
//   - 本文が読めない場合: トークンを持っていたなら失効とみなす。
//     トークンが無いゲストの401はセッションにも遷移にも触れない。
func (c *APIClient) classify401(body []byte, hadToken bool) error {
	msg, ok := parseErrorMessage(body)
	if !ok {
		if hadToken {
			c.expireSession("unparsable 401 body with token present")
			return ErrAuthenticationRequired
		}
		return &APIError{Status: http.StatusUnauthorized, Message: "unauthorized", Body: body}
	}

	lower := strings.ToLower(msg)
	if isTokenErrorMessage(lower) && !isPermissionErrorMessage(lower) {
		c.expireSession(msg)
		return ErrAuthenticationRequired
	}

	return &PermissionError{Status: http.StatusUnauthorized, Message: msg}
}

// expireSessionはトークンエラー分岐だけが持つ副作用。
func (c *APIClient) expireSession(reason string) {
	c.logger.Debug().Str("reason", reason).Msg("apiclient: session invalidated by 401")
	c.session.Clear()
	c.nav.ToLogin()
}
