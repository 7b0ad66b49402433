package apierror

import (
	"errors"
	"net/http"
)

// Code はクライアントに返すエラー種別を表す。GraphQLレスポンスの extensions.code に入る。
type Code string

const (
	// CodeUnauthenticated はトークンが無い、または検証に失敗したことを表す。
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	// CodeUnauthorized は上流APIが401を返したことを表す。
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden は上流APIが403を返したことを表す。
	CodeForbidden Code = "FORBIDDEN"
	// CodeBadRequest は必須入力の欠落など、リクエスト内容の不備を表す。
	CodeBadRequest Code = "BAD_REQUEST"
	// CodeNotFound は対象リソースが存在しないことを表す。
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict はリソースの競合を表す。
	CodeConflict Code = "CONFLICT"
	// CodeValidationError は上流APIでの入力検証エラーを表す。
	CodeValidationError Code = "VALIDATION_ERROR"
	// CodeServiceUnavailable は上流APIに到達できないことを表す。
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeInternalServerError は上流APIまたはゲートウェイ内部の500系エラーを表す。
	CodeInternalServerError Code = "INTERNAL_SERVER_ERROR"
	// CodeInternalError は分類できないエラーを表す。
	CodeInternalError Code = "INTERNAL_ERROR"
	// CodeGraphQLValidationFailed はクエリの構文・検証エラーを表す。
	CodeGraphQLValidationFailed Code = "GRAPHQL_VALIDATION_FAILED"
	// CodeIntrospectionDisabled は本番環境でイントロスペクションが拒否されたことを表す。
	CodeIntrospectionDisabled Code = "INTROSPECTION_DISABLED"
)

// statusCodes は上流APIのHTTPステータスとエラー種別の対応表。
var statusCodes = map[int]Code{
	http.StatusBadRequest:          CodeBadRequest,
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusForbidden:           CodeForbidden,
	http.StatusNotFound:            CodeNotFound,
	http.StatusConflict:            CodeConflict,
	http.StatusUnprocessableEntity: CodeValidationError,
	http.StatusInternalServerError: CodeInternalServerError,
	http.StatusServiceUnavailable:  CodeServiceUnavailable,
}

// CodeFromStatus はHTTPステータスコードからエラー種別を求める。
// 対応表に無いステータスは CodeInternalError になる。
func CodeFromStatus(status int) Code {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return CodeInternalError
}

// Error はゲートウェイが扱うエラー。Adapter境界で上流の失敗や
// ローカルの検証失敗から生成され、GraphQL境界でワイヤ形式に変換される。
type Error struct {
	// Message はクライアントに返すメッセージ。
	Message string
	// Code はエラー種別。
	Code Code
	// HTTPStatus は対応するHTTPステータス。
	HTTPStatus int
	// Details は上流APIのレスポンスボディ。本番環境ではクライアントに返さない。
	Details any
	// Err は原因となったエラー。シリアライズされない。
	Err error
}

// New は新しいエラーを生成する。
func New(code Code, status int, message string) *Error {
	return &Error{Message: message, Code: code, HTTPStatus: status}
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return e.Message
}

// Unwrap は原因となったエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause は原因エラーを付与したコピーを返す。
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// Unauthenticated は認証エラーを生成する。
func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, http.StatusUnauthorized, message)
}

// BadRequest は入力不備エラーを生成する。
func BadRequest(message string) *Error {
	return New(CodeBadRequest, http.StatusBadRequest, message)
}

// ServiceUnavailable は上流API到達不可エラーを生成する。
func ServiceUnavailable(message string) *Error {
	return New(CodeServiceUnavailable, http.StatusServiceUnavailable, message)
}

// Internal は分類できない内部エラーを生成する。
func Internal(message string) *Error {
	return New(CodeInternalError, http.StatusInternalServerError, message)
}

// As はerrのチェーンから *Error を取り出す。
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode はerrが指定したエラー種別の *Error を含むかを返す。
func HasCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
