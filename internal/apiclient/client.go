package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"app/internal/domain/model"

	"github.com/rs/zerolog"
)

// SessionSourceはAPIClientがセッションを見るための約束。
// グローバル参照ではなく注入にして、単体でテストできるようにする。
type SessionSource interface {
	Token() string
	Clear()
}

// Navigatorはログイン画面への遷移の約束。トークンエラー分岐でのみ呼ばれる。
type Navigator interface {
	ToLogin()
}

// APIClientはバックエンドへの唯一のHTTP入口。
// bearer付与・封筒デコード・401分類をここに集約する。
// リトライ・タイムアウトの上乗せはしない（1呼び出し=1回のfetch）。
type APIClient struct {
	baseURL string
	http    *http.Client
	session SessionSource
	nav     Navigator
	logger  zerolog.Logger
}

// DI
func New(baseURL string, session SessionSource, nav Navigator, logger zerolog.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: session,
		nav:     nav,
		logger:  logger,
	}
}

// Requestは相対パスへJSONリクエストを送り、封筒を返す。
//   - トークンがあればAuthorization: Bearerを付ける（空ヘッダは送らない）
//   - 2xx: 本文を封筒としてデコードして返す（successは呼び出し側が見る）
//   - 401: classify401の結果をエラーとして返す
//   - その他: ベストエフォートでパースしたAPIErrorを返す
//
// ネットワーク層の失敗はそのまま呼び出し元へ伝える。
func (c *APIClient) Request(ctx context.Context, method, path string, body any) (model.Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return model.Envelope{}, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return model.Envelope{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hadToken := false
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
		hadToken = true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Envelope{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Envelope{}, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var env model.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// 封筒の形から外れた応答は失敗として扱う
			return model.Envelope{}, &APIError{Status: resp.StatusCode, Message: "invalid response body", Body: data}
		}
		return env, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return model.Envelope{}, c.classify401(data, hadToken)
	}

	msg, ok := parseErrorMessage(data)
	if !ok {
		msg = http.StatusText(resp.StatusCode)
	}
	return model.Envelope{}, &APIError{Status: resp.StatusCode, Message: msg, Body: data}
}

// Get以下はRequestの薄いラッパ。
func (c *APIClient) Get(ctx context.Context, path string) (model.Envelope, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

func (c *APIClient) Post(ctx context.Context, path string, body any) (model.Envelope, error) {
	return c.Request(ctx, http.MethodPost, path, body)
}

func (c *APIClient) Put(ctx context.Context, path string, body any) (model.Envelope, error) {
	return c.Request(ctx, http.MethodPut, path, body)
}

func (c *APIClient) Patch(ctx context.Context, path string, body any) (model.Envelope, error) {
	return c.Request(ctx, http.MethodPatch, path, body)
}

func (c *APIClient) Delete(ctx context.Context, path string) (model.Envelope, error) {
	return c.Request(ctx, http.MethodDelete, path, nil)
}

// parseErrorMessageはエラー本文からメッセージをベストエフォートで取り出す。
func parseErrorMessage(body []byte) (string, bool) {
	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	if env.Message == "" {
		return "", false
	}
	return env.Message, true
}
