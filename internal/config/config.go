package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sirupsen/logrus"
)

// envProduction は本番環境を表すNODE_ENVの値。
const envProduction = "production"

// minSecretLength はこれより短いJWT_SECRETに警告を出す長さ。
const minSecretLength = 32

// Config はゲートウェイの設定。起動時に一度だけ生成され、以後変更されない。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string `env:"PORT" env-default:"4000" env-description:"HTTP listen port"`
	// JWTSecret はトークン検証用の共有秘密鍵。
	JWTSecret string `env:"JWT_SECRET" env-required:"true" env-description:"shared secret for verifying bearer tokens"`
	// EmployeeAPIURL は上流Employee REST APIのベースURL。
	EmployeeAPIURL string `env:"EMPLOYEE_API_URL" env-required:"true" env-description:"base URL of the employee REST API"`
	// EmployeeAPITimeoutMillis は上流APIへのリクエストのタイムアウト（ミリ秒）。
	EmployeeAPITimeoutMillis int `env:"EMPLOYEE_API_TIMEOUT" env-default:"10000" env-description:"upstream timeout in milliseconds"`
	// CORSOrigin はカンマ区切りの許可オリジン、または "*"。
	CORSOrigin string `env:"CORS_ORIGIN" env-default:"*" env-description:"comma-separated allowed origins or *"`
	// Env は実行環境。"production" で本番向けの制限が有効になる。
	Env string `env:"NODE_ENV" env-default:"development" env-description:"runtime environment"`
	// LogLevel はログレベル。未指定の場合は環境に応じて決まる。
	LogLevel string `env:"LOG_LEVEL" env-description:"log level (debug, info, warn, error)"`
	// BodyLimitBytes はリクエストボディの上限サイズ。
	BodyLimitBytes int64 `env:"BODY_LIMIT" env-default:"1048576" env-description:"max request body size in bytes"`
}

// Load は環境変数から設定を読み込んで検証する。
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は必須項目と値の範囲を検証する。
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET は必須です"))
	}
	if strings.TrimSpace(c.EmployeeAPIURL) == "" {
		errs = append(errs, errors.New("EMPLOYEE_API_URL は必須です"))
	} else if u, err := url.Parse(c.EmployeeAPIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("EMPLOYEE_API_URL が不正です: %q", c.EmployeeAPIURL))
	}
	if c.EmployeeAPITimeoutMillis <= 0 {
		errs = append(errs, fmt.Errorf("EMPLOYEE_API_TIMEOUT は正の値である必要があります: %d", c.EmployeeAPITimeoutMillis))
	}
	if c.BodyLimitBytes <= 0 {
		errs = append(errs, fmt.Errorf("BODY_LIMIT は正の値である必要があります: %d", c.BodyLimitBytes))
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL が不正です: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Warnings は起動を妨げないが注意が必要な設定を返す。
func (c *Config) Warnings() []string {
	var warnings []string
	if len(c.JWTSecret) < minSecretLength {
		warnings = append(warnings, fmt.Sprintf("JWT_SECRET が%d文字未満です。本番環境では十分な長さの秘密鍵を使用してください", minSecretLength))
	}
	if c.IsProduction() && c.CORSOrigin == "*" {
		warnings = append(warnings, "本番環境で CORS_ORIGIN が * に設定されています")
	}
	return warnings
}

// IsProduction は本番環境かどうかを返す。
func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// EmployeeAPITimeout は上流APIへのリクエストのタイムアウトを返す。
func (c *Config) EmployeeAPITimeout() time.Duration {
	return time.Duration(c.EmployeeAPITimeoutMillis) * time.Millisecond
}

// EmployeeAPIBaseURL は末尾のスラッシュを除いた上流APIのベースURLを返す。
func (c *Config) EmployeeAPIBaseURL() string {
	return strings.TrimRight(c.EmployeeAPIURL, "/")
}

// AllowedOrigins はCORS_ORIGINを分割した許可オリジンの一覧を返す。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Level はログレベルを返す。LOG_LEVEL未指定の場合、本番はinfo、それ以外はdebug。
func (c *Config) Level() logrus.Level {
	if lvl, err := logrus.ParseLevel(c.LogLevel); c.LogLevel != "" && err == nil {
		return lvl
	}
	if c.IsProduction() {
		return logrus.InfoLevel
	}
	return logrus.DebugLevel
}

// NewLogger は設定に応じたロガーを生成する。
// 本番環境ではJSON形式、それ以外はテキスト形式で標準出力に書き出す。
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(c.Level())
	if c.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
