package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
)

// asOf 测试时钟:种子数据中3号借阅(到期日2024-01-15)已逾期5天
var asOf = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	db := memory.NewSeededDB()
	svc := library.NewService(
		memory.NewBookRepository(db),
		memory.NewMemberRepository(db),
		memory.NewTransactionRepository(db),
		memory.NewTxManager(db),
		transaction.DefaultPolicy(),
		library.ClockFunc(func() time.Time { return asOf }),
		nil, nil, nil,
	)
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	return router.New(cfg, logger.Nop(), router.NewHandlers(svc))
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, dto.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env dto.Envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestPingAndRequestID(t *testing.T) {
	r := newServer(t)

	w, env := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader), "沿用上游的请求ID")
}

func TestMetricsEndpoint(t *testing.T) {
	r := newServer(t)
	do(t, r, http.MethodGet, "/api/v1/books", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookHandler(t *testing.T) {
	r := newServer(t)

	t.Run("列表和过滤", func(t *testing.T) {
		_, env := do(t, r, http.MethodGet, "/api/v1/books", nil)
		var books []book.Book
		require.NoError(t, json.Unmarshal(env.Data, &books))
		assert.Len(t, books, 4)

		_, env = do(t, r, http.MethodGet, "/api/v1/books?genre=Fiction", nil)
		require.NoError(t, json.Unmarshal(env.Data, &books))
		assert.Len(t, books, 2)
	})

	t.Run("不存在返回404", func(t *testing.T) {
		w, env := do(t, r, http.MethodGet, "/api/v1/books/404", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrCodeBookNotFound, env.Code)
	})

	t.Run("新增校验失败", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/books", book.FormData{Title: "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)
	})

	t.Run("请求体不是JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/books", bytes.NewBufferString("not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var env dto.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, apperrors.ErrCodeBindError, env.Code)
	})

	t.Run("新增、修改、删除", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/books", book.FormData{
			Title: "The Go Programming Language", Author: "Alan Donovan", Genre: "Programming",
			ISBN: "978-0134190440", PublishedDate: "2015-10-26", TotalCopies: 2,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var created book.Book
		require.NoError(t, json.Unmarshal(env.Data, &created))
		assert.Equal(t, 2, created.AvailableCopies)

		total := 5
		_, env = do(t, r, http.MethodPut, "/api/v1/books/"+created.ID, book.Patch{TotalCopies: &total})
		var updated book.Book
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Equal(t, 5, updated.AvailableCopies)

		w, _ = do(t, r, http.MethodDelete, "/api/v1/books/"+created.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("有未归还借阅时不能删除", func(t *testing.T) {
		w, env := do(t, r, http.MethodDelete, "/api/v1/books/1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ErrCodeHasActiveLoans, env.Code)
	})
}

func TestMemberHandler(t *testing.T) {
	r := newServer(t)

	_, env := do(t, r, http.MethodGet, "/api/v1/members?membershipType=premium", nil)
	var members []member.Member
	require.NoError(t, json.Unmarshal(env.Data, &members))
	require.Len(t, members, 1)
	assert.Equal(t, "Jane Smith", members[0].Name)

	w, env := do(t, r, http.MethodGet, "/api/v1/members?membershipType=gold", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/members", member.FormData{
		Name: "Alice", Email: "alice@email.com", Phone: "+1-555-0000",
		Address: "1 Loop Rd", MembershipType: member.MembershipStudent,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created member.Member
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.IsActive)
	assert.Equal(t, "2024-01-20", created.MembershipDate)

	inactive := false
	_, env = do(t, r, http.MethodPut, "/api/v1/members/"+created.ID, member.Patch{IsActive: &inactive})
	var updated member.Member
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.False(t, updated.IsActive)

	w, env = do(t, r, http.MethodDelete, "/api/v1/members/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ErrCodeHasActiveLoans, env.Code)
}

func TestTransactionHandler(t *testing.T) {
	r := newServer(t)

	t.Run("借书", func(t *testing.T) {
		w, env := do(t, r, http.MethodPost, "/api/v1/transactions/issue", dto.IssueRequest{BookID: "4", MemberID: "2"})
		require.Equal(t, http.StatusCreated, w.Code)
		var tx transaction.Transaction
		require.NoError(t, json.Unmarshal(env.Data, &tx))
		assert.Equal(t, transaction.StatusIssued, tx.Status)
		assert.Equal(t, "The Great Gatsby", tx.BookTitle)
		assert.True(t, tx.DueDate.Equal(asOf.Add(14*24*time.Hour)))

		_, env = do(t, r, http.MethodGet, "/api/v1/books/4", nil)
		var b book.Book
		require.NoError(t, json.Unmarshal(env.Data, &b))
		assert.Equal(t, 0, b.AvailableCopies)
	})

	t.Run("借书失败", func(t *testing.T) {
		tests := []struct {
			name     string
			req      dto.IssueRequest
			wantCode int
		}{
			{"没有可借副本", dto.IssueRequest{BookID: "4", MemberID: "1"}, apperrors.ErrCodeNoCopiesAvailable},
			{"会员未激活", dto.IssueRequest{BookID: "1", MemberID: "3"}, apperrors.ErrCodeMemberInactive},
			{"图书不存在", dto.IssueRequest{BookID: "404", MemberID: "1"}, apperrors.ErrCodeBookNotFound},
			{"会员不存在", dto.IssueRequest{BookID: "1", MemberID: "404"}, apperrors.ErrCodeMemberNotFound},
			{"缺少参数", dto.IssueRequest{BookID: "1"}, apperrors.ErrCodeBindError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, env := do(t, r, http.MethodPost, "/api/v1/transactions/issue", tt.req)
				assert.Equal(t, tt.wantCode, env.Code)
			})
		}
	})

	t.Run("按推导状态过滤", func(t *testing.T) {
		_, env := do(t, r, http.MethodGet, "/api/v1/transactions?status=overdue", nil)
		var txs []transaction.Transaction
		require.NoError(t, json.Unmarshal(env.Data, &txs))
		require.Len(t, txs, 1)
		assert.Equal(t, "3", txs[0].ID)
		assert.Equal(t, transaction.StatusOverdue, txs[0].Status)

		w, _ := do(t, r, http.MethodGet, "/api/v1/transactions?status=lost", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("逾期还书计算罚款", func(t *testing.T) {
		w, env := do(t, r, http.MethodPut, "/api/v1/transactions/3/return", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var tx transaction.Transaction
		require.NoError(t, json.Unmarshal(env.Data, &tx))
		assert.Equal(t, transaction.StatusReturned, tx.Status)
		require.NotNil(t, tx.Fine)
		assert.Equal(t, "250", tx.Fine.String())

		_, env = do(t, r, http.MethodPut, "/api/v1/transactions/3/return", nil)
		assert.Equal(t, apperrors.ErrCodeAlreadyReturned, env.Code)

		w, env = do(t, r, http.MethodGet, "/api/v1/transactions/404", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrCodeTransactionNotFound, env.Code)
	})

	t.Run("首页统计", func(t *testing.T) {
		_, env := do(t, r, http.MethodGet, "/api/v1/dashboard", nil)
		var d library.Dashboard
		require.NoError(t, json.Unmarshal(env.Data, &d))
		assert.Equal(t, 4, d.TotalBooks)
		assert.Equal(t, 4, d.TotalTransactions)
		assert.Equal(t, 2, d.IssuedBooks)
		assert.Zero(t, d.OverdueBooks)
	})
}

// 手工维护的swagger文档必须覆盖所有业务路由
func TestSwaggerDocCoversRoutes(t *testing.T) {
	r := newServer(t)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	param := regexp.MustCompile(`:(\w+)`)
	for _, route := range r.Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1") {
			continue
		}
		path := param.ReplaceAllString(route.Path, "{$1}")
		methods, ok := doc.Paths[path]
		if !assert.True(t, ok, "文档缺少路径 %s", path) {
			continue
		}
		assert.Contains(t, methods, strings.ToLower(route.Method), "文档缺少 %s %s", route.Method, path)
	}
}
