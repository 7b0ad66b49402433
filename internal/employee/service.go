package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/employee-gateway/internal/metrics"
	"github.com/nao1215/employee-gateway/pkg/apierror"
	"github.com/nao1215/employee-gateway/pkg/httpclient"
	"github.com/nao1215/employee-gateway/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// employeesPath は上流APIの従業員リソースのパス。
const employeesPath = "/employees"

// メトリクスとログに使う操作名。
const (
	opList   = "listEmployees"
	opGet    = "getEmployee"
	opCreate = "createEmployee"
	opUpdate = "updateEmployee"
)

// resultOK は成功した上流呼び出しのメトリクスラベル。
const resultOK = "OK"

// ClientFactory はBearerトークンに紐付いた上流クライアントを生成する。
type ClientFactory interface {
	NewClient(token string) *httpclient.Client
}

// Service は従業員のCRUD操作を上流REST APIに転送する。
// すべての操作はリクエストコンテキストの検証済みトークンを必須とする。
type Service struct {
	factory ClientFactory
	metrics *metrics.Metrics
	log     *logrus.Logger
}

// NewService は新しいServiceを生成する。
func NewService(factory ClientFactory, m *metrics.Metrics, log *logrus.Logger) *Service {
	return &Service{factory: factory, metrics: m, log: log}
}

// List は従業員一覧を取得する。
func (s *Service) List(ctx context.Context, params ListParams) (*Page, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if params.Page != nil {
		query.Set("page", strconv.Itoa(*params.Page))
	}
	if params.Size != nil {
		query.Set("size", strconv.Itoa(*params.Size))
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}

	var raw json.RawMessage
	err = s.call(ctx, opList, "Failed to fetch employees", func() error {
		return client.GetJSON(ctx, employeesPath, query, &raw)
	})
	if err != nil {
		return nil, err
	}

	page, err := decodePage(raw)
	if err != nil {
		return nil, s.fail(ctx, opList, apierror.Internal("Failed to fetch employees").WithCause(err))
	}
	return page, nil
}

// Get はIDを指定して従業員を取得する。
func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apierror.BadRequest("Employee ID is required")
	}

	var emp Employee
	err = s.call(ctx, opGet, fmt.Sprintf("Failed to fetch employee with id %s", id), func() error {
		return client.GetJSON(ctx, employeePath(id), nil, &emp)
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// Create は従業員を作成する。入力の検証は上流を呼び出す前に行う。
func (s *Service) Create(ctx context.Context, input *EmployeeInput) (*Employee, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	if input == nil {
		return nil, apierror.BadRequest("Employee input is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierror.BadRequest("Employee name is required")
	}

	var emp Employee
	err = s.call(ctx, opCreate, "Failed to create employee", func() error {
		return client.PostJSON(ctx, employeesPath, input, &emp)
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// Update は従業員を更新する。
func (s *Service) Update(ctx context.Context, id string, input *EmployeeInput) (*Employee, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apierror.BadRequest("Employee ID is required")
	}
	if input == nil {
		return nil, apierror.BadRequest("Employee input is required")
	}

	var emp Employee
	err = s.call(ctx, opUpdate, fmt.Sprintf("Failed to update employee with id %s", id), func() error {
		return client.PutJSON(ctx, employeePath(id), input, &emp)
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// client はコンテキストの検証済みトークンで上流クライアントを生成する。
func (s *Service) client(ctx context.Context) (*httpclient.Client, error) {
	token, err := middleware.AuthFrom(ctx).RequireToken()
	if err != nil {
		return nil, err
	}
	return s.factory.NewClient(token), nil
}

// call は上流呼び出しを計測し、失敗を *apierror.Error に変換する。
func (s *Service) call(ctx context.Context, op, defaultMessage string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return s.fail(ctx, op, mapError(err, defaultMessage))
	}
	s.metrics.UpstreamRequests.WithLabelValues(op, resultOK).Inc()
	return nil
}

// fail は失敗を記録してそのまま返す。
func (s *Service) fail(ctx context.Context, op string, apiErr *apierror.Error) *apierror.Error {
	s.metrics.UpstreamRequests.WithLabelValues(op, string(apiErr.Code)).Inc()

	entry := s.log.WithContext(ctx).WithFields(logrus.Fields{
		"operation": op,
		"code":      apiErr.Code,
		"status":    apiErr.HTTPStatus,
		"subject":   middleware.AuthFrom(ctx).Subject(),
	})
	if apiErr.Err != nil {
		entry = entry.WithError(apiErr.Err)
	}
	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		entry.Error(apiErr.Message)
	} else {
		entry.Warn(apiErr.Message)
	}
	return apiErr
}

// employeePath は従業員1件のパスを返す。IDはパスセグメントとしてエスケープする。
func employeePath(id string) string {
	return employeesPath + "/" + url.PathEscape(id)
}
