package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/location"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/nao1215/employee-gateway/pkg/apierror"
	"github.com/nao1215/employee-gateway/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// internalErrorMessage は本番環境で分類できないエラーの代わりに返すメッセージ。
const internalErrorMessage = "Internal server error"

// operationUnknown は操作種別を判定できなかった場合のメトリクスラベル。
const operationUnknown = "unknown"

// graphQLRequest はPOST /graphql のリクエストボディ。
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// graphQLResponse はPOST /graphql のレスポンスボディ。
type graphQLResponse struct {
	Data   interface{}     `json:"data,omitempty"`
	Errors []responseError `json:"errors,omitempty"`
}

// responseError はクライアントに返すGraphQLエラー。
type responseError struct {
	Message    string                    `json:"message"`
	Locations  []location.SourceLocation `json:"locations,omitempty"`
	Path       []interface{}             `json:"path,omitempty"`
	Extensions map[string]interface{}    `json:"extensions"`
}

// operationInfo はクエリを事前に解析した結果。
type operationInfo struct {
	// Type は "query" または "mutation"。
	Type string
	// Introspection は __schema または __type を含むかどうか。
	Introspection bool
}

// handleGraphQL はGraphQLリクエストを実行するハンドラを返す。
func (s *Server) handleGraphQL() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := s.log.WithField("request_id", middleware.GetRequestID(c))

		var req graphQLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				entry.WithError(err).Warn("リクエストボディが上限を超えました")
				c.JSON(http.StatusRequestEntityTooLarge, errorResponse("Request body too large", "PAYLOAD_TOO_LARGE"))
				return
			}
			entry.WithError(err).Warn("GraphQLリクエストのデシリアライズに失敗")
			c.JSON(http.StatusBadRequest, errorResponse("Invalid JSON request body", string(apierror.CodeBadRequest)))
			return
		}
		if req.Query == "" {
			c.JSON(http.StatusBadRequest, errorResponse("GraphQL operations must contain a non-empty query", string(apierror.CodeBadRequest)))
			return
		}

		info := inspectOperation(req.Query, req.OperationName)
		if s.cfg.IsProduction() && info.Introspection {
			entry.Warn("本番環境でイントロスペクションが要求されました")
			s.metrics.GraphQLOperations.WithLabelValues(info.Type, "error").Inc()
			c.JSON(http.StatusBadRequest, errorResponse("GraphQL introspection is disabled", string(apierror.CodeIntrospectionDisabled)))
			return
		}

		auth := middleware.NewAuthContext(s.validator, c.GetHeader("Authorization"))
		ctx := middleware.WithAuth(c.Request.Context(), auth)

		result := graphql.Do(graphql.Params{
			Schema:         s.schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})

		// 実行前に失敗した場合（構文・検証エラー）は data を持たない
		executed := result.Data != nil
		resp := graphQLResponse{Data: result.Data}
		for _, fe := range result.Errors {
			resp.Errors = append(resp.Errors, s.formatError(entry, fe, executed))
		}

		outcome := "success"
		if len(result.Errors) > 0 {
			outcome = "error"
		}
		s.metrics.GraphQLOperations.WithLabelValues(info.Type, outcome).Inc()

		status := http.StatusOK
		if !executed && len(result.Errors) > 0 {
			status = http.StatusBadRequest
		}
		c.JSON(status, resp)
	}
}

// formatError はGraphQLエラーをログに記録し、環境に応じた形式に変換する。
// 本番環境では message と extensions.code のみを返す。
func (s *Server) formatError(entry *logrus.Entry, fe gqlerrors.FormattedError, executed bool) responseError {
	cause := originalError(fe)
	apiErr, isAPIErr := apierror.As(cause)

	var code apierror.Code
	switch {
	case isAPIErr:
		code = apiErr.Code
	case !executed:
		code = apierror.CodeGraphQLValidationFailed
	default:
		code = apierror.CodeInternalServerError
	}

	fields := logrus.Fields{"code": code, "path": fe.Path}
	if isAPIErr {
		fields["status"] = apiErr.HTTPStatus
	}
	logEntry := entry.WithFields(fields)
	if cause != nil {
		logEntry = logEntry.WithError(cause)
	}
	if code == apierror.CodeInternalServerError || code == apierror.CodeInternalError {
		logEntry.Error("GraphQLエラー: " + fe.Message)
	} else {
		logEntry.Warn("GraphQLエラー: " + fe.Message)
	}

	message := fe.Message
	if isAPIErr {
		message = apiErr.Message
	}

	if s.cfg.IsProduction() {
		if !isAPIErr && executed {
			message = internalErrorMessage
		}
		return responseError{
			Message:    message,
			Extensions: map[string]interface{}{"code": code},
		}
	}

	ext := map[string]interface{}{"code": code}
	switch {
	case isAPIErr:
		ext["statusCode"] = apiErr.HTTPStatus
		if apiErr.Details != nil {
			ext["details"] = apiErr.Details
		}
	case executed && cause != nil:
		ext["exception"] = map[string]interface{}{"message": cause.Error()}
	}
	return responseError{
		Message:    message,
		Locations:  fe.Locations,
		Path:       fe.Path,
		Extensions: ext,
	}
}

// originalError はリゾルバが返した元のエラーを取り出す。
func originalError(fe gqlerrors.FormattedError) error {
	err := fe.OriginalError()
	var located *gqlerrors.Error
	if errors.As(err, &located) && located.OriginalError != nil {
		return located.OriginalError
	}
	return err
}

// errorResponse は単一のエラーからなるレスポンスを生成する。
func errorResponse(message, code string) graphQLResponse {
	return graphQLResponse{
		Errors: []responseError{{
			Message:    message,
			Extensions: map[string]interface{}{"code": code},
		}},
	}
}

// inspectOperation は実行対象の操作種別と、イントロスペクションを含むかを調べる。
// 構文エラーの場合は判定せず、実行時のエラーに任せる。
func inspectOperation(query, operationName string) operationInfo {
	info := operationInfo{Type: operationUnknown}

	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return info
	}

	fragments := map[string]*ast.FragmentDefinition{}
	for _, def := range doc.Definitions {
		if frag, ok := def.(*ast.FragmentDefinition); ok && frag.Name != nil {
			fragments[frag.Name.Value] = frag
		}
	}

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if info.Type == operationUnknown {
			info.Type = op.Operation
		}
		if hasIntrospection(op.SelectionSet, fragments, map[string]bool{}) {
			info.Introspection = true
		}
	}
	return info
}

// hasIntrospection は選択セットに __schema または __type が含まれるかを再帰的に調べる。
func hasIntrospection(set *ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visited map[string]bool) bool {
	if set == nil {
		return false
	}
	for _, sel := range set.Selections {
		switch node := sel.(type) {
		case *ast.Field:
			if node.Name != nil && (node.Name.Value == "__schema" || node.Name.Value == "__type") {
				return true
			}
			if hasIntrospection(node.SelectionSet, fragments, visited) {
				return true
			}
		case *ast.InlineFragment:
			if hasIntrospection(node.SelectionSet, fragments, visited) {
				return true
			}
		case *ast.FragmentSpread:
			if node.Name == nil || visited[node.Name.Value] {
				continue
			}
			visited[node.Name.Value] = true
			if frag, ok := fragments[node.Name.Value]; ok && hasIntrospection(frag.SelectionSet, fragments, visited) {
				return true
			}
		}
	}
	return false
}
