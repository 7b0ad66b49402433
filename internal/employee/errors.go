package employee

import (
	"encoding/json"
	"errors"

	"github.com/nao1215/employee-gateway/pkg/apierror"
	"github.com/nao1215/employee-gateway/pkg/httpclient"
)

// unreachableMessage は上流APIに到達できなかった場合のメッセージ。
const unreachableMessage = "Unable to reach employee service"

// mapError は上流呼び出しの失敗を *apierror.Error に変換する。
// すでに *apierror.Error の場合は二重に包まずそのまま返す。
func mapError(err error, defaultMessage string) *apierror.Error {
	if apiErr, ok := apierror.As(err); ok {
		return apiErr
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		details := decodeDetails(statusErr.Body)
		return &apierror.Error{
			Message:    upstreamMessage(details, defaultMessage),
			Code:       apierror.CodeFromStatus(statusErr.StatusCode),
			HTTPStatus: statusErr.StatusCode,
			Details:    details,
			Err:        err,
		}
	}

	if errors.Is(err, httpclient.ErrUnreachable) {
		return apierror.ServiceUnavailable(unreachableMessage).WithCause(err)
	}

	return apierror.Internal(defaultMessage).WithCause(err)
}

// decodeDetails は上流のエラーボディをデコードする。JSONでなければ文字列のまま返す。
func decodeDetails(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

// upstreamMessage はエラーボディの message、次に error を優先してメッセージを決める。
func upstreamMessage(details any, defaultMessage string) string {
	body, ok := details.(map[string]any)
	if !ok {
		return defaultMessage
	}
	for _, key := range []string{"message", "error"} {
		if msg, ok := body[key].(string); ok && msg != "" {
			return msg
		}
	}
	return defaultMessage
}
