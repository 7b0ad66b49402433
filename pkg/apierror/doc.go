// Package apierror はゲートウェイ全体で共通のエラー型とエラー種別を提供する。
//
// 上流APIのHTTPステータスからエラー種別への対応表もここに置く。
package apierror
