// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWTの検証とリクエスト単位の認証情報、リクエストIDとアクセスログ、
// セキュリティヘッダー、ボディサイズ制限、パニックリカバリ、CORS設定を含む。
package middleware
