// Package config は環境変数からゲートウェイの設定を読み込む。
//
// 設定は起動時に一度だけ生成され、各コンポーネントに明示的に渡される。
package config
