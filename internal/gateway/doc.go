// Package gateway はGraphQLゲートウェイのHTTPサーバーを提供する。
//
// POST /graphql で受け付けたクエリを実行し、従業員の操作を上流の
// Employee REST APIに転送する。Bearerトークンはリクエストごとに検証され、
// 結果はコンテキスト経由でリゾルバに渡される。本番環境では
// イントロスペクションを拒否し、エラーは message と code のみを返す。
package gateway
