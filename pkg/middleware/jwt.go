package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/employee-gateway/pkg/apierror"
	"github.com/sirupsen/logrus"
)

// ErrSecretNotConfigured は検証用の秘密鍵が設定されていないことを表す。
var ErrSecretNotConfigured = errors.New("JWTの秘密鍵が設定されていません")

// tokenIssuer は開発用トークンの発行者名。
const tokenIssuer = "employee-gateway"

// ginキー。PassiveAuthが設定する。
const (
	ginKeyClaims  = "claims"
	ginKeySubject = "subject"
)

// JWTClaims は開発用トークンのクレーム（ペイロード）を表す。
type JWTClaims struct {
	jwt.RegisteredClaims
	// Roles はユーザーに付与されたロール。
	Roles []string `json:"roles,omitempty"`
}

// GenerateJWT はHS256で署名したトークンを生成する。
// 本番のトークンは外部の認証基盤が発行する。これは開発・テスト用。
func GenerateJWT(secret, subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
		Roles: roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// BearerToken は Authorization ヘッダーからBearerトークンを取り出す。
// Bearer形式でない場合は空文字列を返す。
func BearerToken(header string) string {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// TokenValidator は共有秘密鍵でトークンの署名と有効期限を検証する。
// 秘密鍵は生成時に固定され、以後変更されない。
type TokenValidator struct {
	secret []byte
}

// NewTokenValidator は新しいTokenValidatorを生成する。
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

// Validate はトークンを検証し、デコードしたクレームをそのまま返す。
func (v *TokenValidator) Validate(token string) (jwt.MapClaims, error) {
	if token == "" {
		return nil, apierror.Unauthenticated("Authentication required. Please provide a valid JWT token.")
	}
	if len(v.secret) == 0 {
		return nil, apierror.New(apierror.CodeInternalServerError, http.StatusInternalServerError, "JWT secret not configured").
			WithCause(ErrSecretNotConfigured)
	}

	parsed, err := jwt.Parse(token, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	switch {
	case err == nil:
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return nil, apierror.Unauthenticated("Token validation failed")
		}
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apierror.Unauthenticated("Token has expired").WithCause(err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, apierror.Unauthenticated("Invalid token").WithCause(err)
	default:
		return nil, apierror.Unauthenticated("Token validation failed").WithCause(err)
	}
}

// PassiveAuth はトークンがあればデコードしてコンテキストに設定するGinミドルウェアを返す。
// 検証に失敗してもリクエストは拒否しない。認可はGraphQLの各操作で行う。
func PassiveAuth(v *TokenValidator, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := v.Validate(token)
		if err != nil {
			log.WithField("path", c.Request.URL.Path).WithError(err).Debug("トークンのデコードに失敗")
			c.Next()
			return
		}

		c.Set(ginKeyClaims, claims)
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			c.Set(ginKeySubject, sub)
		}
		c.Next()
	}
}

// GetClaims はGinコンテキストからクレームを取得する。
// PassiveAuthミドルウェアが事前に適用されている必要がある。
func GetClaims(c *gin.Context) jwt.MapClaims {
	v, _ := c.Get(ginKeyClaims)
	if claims, ok := v.(jwt.MapClaims); ok {
		return claims
	}
	return nil
}

// GetSubject はGinコンテキストからトークンのsubjectを取得する。
func GetSubject(c *gin.Context) string {
	v, _ := c.Get(ginKeySubject)
	if sub, ok := v.(string); ok {
		return sub
	}
	return ""
}
