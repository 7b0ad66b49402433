package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/nao1215/employee-gateway/internal/config"
	"github.com/nao1215/employee-gateway/internal/employee"
	"github.com/nao1215/employee-gateway/internal/metrics"
	"github.com/nao1215/employee-gateway/pkg/httpclient"
	"github.com/nao1215/employee-gateway/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// shutdownTimeout は停止時に処理中のリクエストを待つ時間。
const shutdownTimeout = 10 * time.Second

// Server はGraphQLゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// httpServer はrouterを公開するHTTPサーバー。
	httpServer *http.Server
	// cfg は起動時に読み込んだ設定。
	cfg *config.Config
	// log はリクエスト処理とGraphQLエラーのロガー。
	log *logrus.Logger
	// validator はBearerトークンの検証器。
	validator *middleware.TokenValidator
	// schema は実行するGraphQLスキーマ。
	schema graphql.Schema
	// metrics はGraphQL操作と上流呼び出しのメトリクス。
	metrics *metrics.Metrics
	// startedAt はヘルスチェックで返す稼働時間の起点。
	startedAt time.Time
}

// NewServer は新しいGatewayサーバーを生成する。
// メトリクスはregに登録され、GET /metrics で公開される。
func NewServer(cfg *config.Config, log *logrus.Logger, reg *prometheus.Registry) (*Server, error) {
	m := metrics.NewMetrics(reg)
	factory := httpclient.Factory{
		BaseURL: cfg.EmployeeAPIBaseURL(),
		Timeout: cfg.EmployeeAPITimeout(),
	}
	svc := employee.NewService(factory, m, log)

	schema, err := newSchema(svc)
	if err != nil {
		return nil, err
	}

	validator := middleware.NewTokenValidator(cfg.JWTSecret)

	router := gin.New()
	router.Use(middleware.Recovery(log, !cfg.IsProduction()))
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.AllowedOrigins()))
	router.Use(middleware.BodyLimit(cfg.BodyLimitBytes))
	router.Use(middleware.PassiveAuth(validator, log))

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		cfg:       cfg,
		log:       log,
		validator: validator,
		schema:    schema,
		metrics:   m,
		startedAt: time.Now(),
	}
	s.setupRoutes(reg)

	return s, nil
}

// setupRoutes はルーティングを設定する。
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.POST("/graphql", s.handleGraphQL())

	// ヘルスチェック（認証不要）
	s.router.GET("/health", s.handleHealth())

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "code": "NOT_FOUND"})
	})
}

// handleHealth は稼働状況を返すハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"uptime":    time.Since(s.startedAt).Seconds(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Run はctxがキャンセルされるまでHTTPサーバーを起動する。
// キャンセル後は処理中のリクエストを最大10秒待ってから停止する。
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("GraphQLゲートウェイを起動しました")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("シャットダウンを開始します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		_ = s.httpServer.Close()
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	s.log.Info("シャットダウンが完了しました")
	return nil
}
