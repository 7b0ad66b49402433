// Package employee は上流のEmployee REST APIへのアダプタを提供する。
//
// GraphQLのリゾルバから呼び出され、リクエストコンテキストの検証済みトークンを
// 転送して従業員の一覧取得・取得・作成・更新を行う。上流の失敗は
// apierror.Error に変換して返す。
package employee
