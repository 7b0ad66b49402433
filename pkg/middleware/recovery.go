package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時にスタックトレースをログに出力し、500エラーを返す。
// verboseがtrueの場合のみ、レスポンスにパニック内容とスタックトレースを含める。
func Recovery(log *logrus.Logger, verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				log.WithFields(logrus.Fields{
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"request_id": GetRequestID(c),
					"stack":      stack,
				}).Errorf("[PANIC] %v", r)

				body := gin.H{
					"error": "Internal Server Error",
					"code":  "INTERNAL_SERVER_ERROR",
				}
				if verbose {
					body["message"] = fmt.Sprint(r)
					body["stack"] = stack
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}
