package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout はFactoryにタイムアウトが指定されなかった場合の値。
const DefaultTimeout = 10 * time.Second

// ErrUnreachable は上流サービスからレスポンスを受け取れなかったことを表す。
// 接続拒否、名前解決の失敗、タイムアウト、コンテキストのキャンセルが該当する。
var ErrUnreachable = errors.New("上流サービスに到達できません")

// StatusError は上流サービスが2xx以外のステータスを返したことを表す。
type StatusError struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Body はレスポンスボディ。
	Body []byte
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, string(e.Body))
}

// Factory はリクエストごとにClientを生成する。
// 接続の再利用はデフォルトのトランスポートに任せる。
type Factory struct {
	// BaseURL は接続先サービスのベースURL（例: "http://employee-api:8080/api/v1"）。
	BaseURL string
	// Timeout は1リクエストあたりのタイムアウト。
	Timeout time.Duration
	// Transport はテスト等で差し替えるトランスポート。nilならデフォルトを使う。
	Transport http.RoundTripper
}

// NewClient は呼び出し元のBearerトークンに紐付いたClientを生成する。
// tokenが空の場合はAuthorizationヘッダーを付与しない。
func (f Factory) NewClient(token string) *Client {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: f.Transport,
		},
		baseURL: f.BaseURL,
		token:   token,
	}
}

// Client は上流サービスとJSONでやり取りするHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。
	baseURL string
	// token は転送するBearerトークン。
	token string
}

// GetJSON は指定パスにGETリクエストを送信する。
// queryが空でなければクエリ文字列として付与する。
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, result any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// PostJSON は指定パスにJSONボディでPOSTリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// PutJSON は指定パスにJSONボディでPUTリクエストを送信する。
// レスポンスボディをresultにデシリアライズする。
func (c *Client) PutJSON(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, result)
}

// doJSON はJSON形式のHTTPリクエストを実行する共通処理。
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}
