// Package httpclient は上流のREST APIとJSONで通信するクライアントを提供する。
//
// Factoryはゲートウェイへのリクエストごとに、呼び出し元のBearerトークンを
// 転送するClientを生成する。2xx以外のレスポンスは StatusError、
// 上流に到達できなかった場合は ErrUnreachable をラップしたエラーになる。
package httpclient
