package middleware

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nao1215/employee-gateway/pkg/apierror"
)

// AuthContext はリクエスト単位の認証情報。リクエスト受信時に一度だけ生成され、変更されない。
type AuthContext struct {
	// Claims は検証済みトークンのクレーム。検証に失敗した場合はnil。
	Claims jwt.MapClaims
	// Token は検証済みのBearerトークン。検証に失敗した場合は空文字列。
	Token string
	// Err はトークン検証の失敗理由。
	Err error
}

// NewAuthContext はAuthorizationヘッダーの値からAuthContextを生成する。
func NewAuthContext(v *TokenValidator, authHeader string) AuthContext {
	token := BearerToken(authHeader)
	claims, err := v.Validate(token)
	if err != nil {
		return AuthContext{Err: err}
	}
	return AuthContext{Claims: claims, Token: token}
}

// RequireToken は検証済みトークンを返す。トークンが無い場合は認証エラーを返す。
func (a AuthContext) RequireToken() (string, error) {
	if a.Token != "" {
		return a.Token, nil
	}
	if a.Err != nil {
		return "", a.Err
	}
	return "", apierror.Unauthenticated("Authentication required")
}

// Subject はクレームのsubjectを返す。
func (a AuthContext) Subject() string {
	if a.Claims == nil {
		return ""
	}
	sub, _ := a.Claims.GetSubject()
	return sub
}

// authContextKey はcontext.Contextのキーの型。
type authContextKey struct{}

// WithAuth はコンテキストにAuthContextを設定する。
func WithAuth(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthFrom はコンテキストからAuthContextを取得する。
// 設定されていない場合はゼロ値を返す。ゼロ値のRequireTokenは認証エラーになる。
func AuthFrom(ctx context.Context) AuthContext {
	auth, _ := ctx.Value(authContextKey{}).(AuthContext)
	return auth
}
