package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

var asOf = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

func newSeededService() *library.Service {
	db := memory.NewSeededDB()
	return library.NewService(
		memory.NewBookRepository(db),
		memory.NewMemberRepository(db),
		memory.NewTransactionRepository(db),
		memory.NewTxManager(db),
		transaction.DefaultPolicy(),
		library.ClockFunc(func() time.Time { return asOf }),
		nil, nil, nil,
	)
}

// newAPIServer 在httptest中运行完整的REST API
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	srv := httptest.NewServer(router.New(cfg, logger.Nop(), router.NewHandlers(newSeededService())))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPTransport(t *testing.T) {
	srv := newAPIServer(t)
	tr := NewHTTP(srv.URL+"/api/v1/", time.Second)
	ctx := context.Background()

	t.Run("查询", func(t *testing.T) {
		books, err := tr.ListBooks(ctx, book.ListFilter{Keyword: "orwell"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "1984", books[0].Title)

		members, err := tr.ListMembers(ctx, member.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, members, 3)

		txs, err := tr.ListTransactions(ctx, transaction.ListFilter{Status: transaction.StatusOverdue})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "3", txs[0].ID)
	})

	t.Run("业务错误还原为领域错误", func(t *testing.T) {
		_, err := tr.GetBook(ctx, "404")
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
		assert.False(t, apperrors.IsTransportError(err))

		_, err = tr.IssueBook(ctx, "1", "3")
		assert.True(t, errors.Is(err, member.ErrMemberInactive))

		_, err = tr.CreateBook(ctx, book.FormData{Title: "no isbn"})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidParams))
	})

	t.Run("借书和还书", func(t *testing.T) {
		tx, err := tr.IssueBook(ctx, "2", "1")
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusIssued, tx.Status)

		b, err := tr.GetBook(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, 1, b.AvailableCopies)

		returned, err := tr.ReturnBook(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusReturned, returned.Status)
		require.NotNil(t, returned.Fine)
		assert.True(t, returned.Fine.IsZero())

		_, err = tr.ReturnBook(ctx, tx.ID)
		assert.True(t, errors.Is(err, transaction.ErrAlreadyReturned))
	})

	t.Run("新增、修改、删除", func(t *testing.T) {
		m, err := tr.CreateMember(ctx, member.FormData{
			Name: "Alice", Email: "alice@email.com", Phone: "+1-555-0000",
			Address: "1 Loop Rd", MembershipType: member.MembershipStandard,
		})
		require.NoError(t, err)

		name := "Alice Liddell"
		m, err = tr.UpdateMember(ctx, m.ID, member.Patch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, m.Name)

		require.NoError(t, tr.DeleteMember(ctx, m.ID))
		_, err = tr.GetMember(ctx, m.ID)
		assert.True(t, errors.Is(err, member.ErrMemberNotFound))
	})
}

func TestHTTPTransport_TransportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("5xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTP(srv.URL, time.Second).ListBooks(ctx, book.ListFilter{})
		assert.True(t, apperrors.IsTransportError(err))
	})

	t.Run("响应不是JSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer srv.Close()

		_, err := NewHTTP(srv.URL, time.Second).ListBooks(ctx, book.ListFilter{})
		assert.True(t, apperrors.IsTransportError(err))
	})

	t.Run("连接失败", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTP(url, time.Second).ListBooks(ctx, book.ListFilter{})
		assert.True(t, apperrors.IsTransportError(err))
	})

	t.Run("ctx取消不算传输错误", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := NewHTTP(srv.URL, time.Second).ListBooks(ctx, book.ListFilter{})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, apperrors.IsTransportError(err))
	})
}

func fallbacks(op string) float64 {
	return testutil.ToFloat64(metrics.TransportFallbacksTotal.WithLabelValues(op))
}

func newTestFallback(primary Transport, failures uint32) *FallbackTransport {
	breaker := NewBreaker(config.BreakerConfig{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: failures,
	}, nil)
	return NewFallback(primary, NewLocal(newSeededService()), breaker, nil)
}

func TestFallbackTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("API不可用时使用本地数据", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		f := newTestFallback(NewHTTP(srv.URL, time.Second), 2)
		before := fallbacks("ListMembers")

		for i := 0; i < 4; i++ {
			members, err := f.ListMembers(ctx, member.ListFilter{})
			require.NoError(t, err)
			assert.Len(t, members, 3)
		}
		assert.Equal(t, before+4, fallbacks("ListMembers"))
		assert.EqualValues(t, 2, atomic.LoadInt32(&hits), "熔断后不再请求API")
		assert.Equal(t, circuitbreaker.StateOpen, f.breaker.State())
	})

	t.Run("本地数据上的借书遵守同样的规则", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		f := newTestFallback(NewHTTP(srv.URL, time.Second), 5)
		_, err := f.IssueBook(ctx, "4", "1")
		require.NoError(t, err)
		_, err = f.IssueBook(ctx, "4", "2")
		assert.True(t, errors.Is(err, book.ErrNoCopiesAvailable))
	})

	t.Run("业务错误不降级", func(t *testing.T) {
		srv := newAPIServer(t)
		f := newTestFallback(NewHTTP(srv.URL+"/api/v1", time.Second), 1)
		before := fallbacks("GetBook")

		for i := 0; i < 3; i++ {
			_, err := f.GetBook(ctx, "404")
			assert.True(t, errors.Is(err, book.ErrBookNotFound))
		}
		assert.Equal(t, before, fallbacks("GetBook"))
		assert.Equal(t, circuitbreaker.StateClosed, f.breaker.State())
	})

	t.Run("API正常时不使用本地数据", func(t *testing.T) {
		srv := newAPIServer(t)
		f := newTestFallback(NewHTTP(srv.URL+"/api/v1", time.Second), 1)

		_, err := f.IssueBook(ctx, "1", "2")
		require.NoError(t, err)

		b, err := NewHTTP(srv.URL+"/api/v1", time.Second).GetBook(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 2, b.AvailableCopies, "服务端的可借数量已减少")
	})
}

func TestNew(t *testing.T) {
	cfg := config.ClientConfig{BaseURL: "http://127.0.0.1:1/api/v1", Timeout: time.Second}

	_, ok := New(cfg, transaction.DefaultPolicy(), nil).(*HTTPTransport)
	assert.True(t, ok)

	cfg.SeedFallback = true
	cfg.Breaker.ConsecutiveFailures = 1
	tr := New(cfg, transaction.DefaultPolicy(), nil)
	_, ok = tr.(*FallbackTransport)
	require.True(t, ok)

	books, err := tr.ListBooks(context.Background(), book.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 4)
}
