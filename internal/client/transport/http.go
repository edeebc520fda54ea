package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// DefaultTimeout 单次请求超时
const DefaultTimeout = 5 * time.Second

// maxBodySize 响应体上限,防止异常响应占满内存
const maxBodySize = 4 << 20

// HTTPTransport 通过REST API访问图书馆服务
//
// 错误转换:
//  1. 网络错误、5xx、响应无法解析 → apperrors.ErrCodeTransport(触发降级)
//  2. 业务错误响应 → 按code还原的AppError,errors.Is可与领域错误比较
//  3. ctx取消/超时原样返回ctx.Err(),不触发降级
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTP 创建HTTP传输,baseURL形如 http://localhost:8080/api/v1
func NewHTTP(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) ListBooks(ctx context.Context, filter book.ListFilter) ([]*book.Book, error) {
	q := dto.BookQueryOf(filter)
	var out []*book.Book
	err := t.do(ctx, http.MethodGet, "/books", query("keyword", q.Keyword, "genre", q.Genre), nil, &out)
	return out, err
}

func (t *HTTPTransport) GetBook(ctx context.Context, id string) (*book.Book, error) {
	var out book.Book
	if err := t.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) CreateBook(ctx context.Context, form book.FormData) (*book.Book, error) {
	var out book.Book
	if err := t.do(ctx, http.MethodPost, "/books", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) UpdateBook(ctx context.Context, id string, patch book.Patch) (*book.Book, error) {
	var out book.Book
	if err := t.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) DeleteBook(ctx context.Context, id string) error {
	return t.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil, nil)
}

func (t *HTTPTransport) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	q := dto.MemberQueryOf(filter)
	var out []*member.Member
	err := t.do(ctx, http.MethodGet, "/members", query("keyword", q.Keyword, "membershipType", q.MembershipType), nil, &out)
	return out, err
}

func (t *HTTPTransport) GetMember(ctx context.Context, id string) (*member.Member, error) {
	var out member.Member
	if err := t.do(ctx, http.MethodGet, "/members/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) CreateMember(ctx context.Context, form member.FormData) (*member.Member, error) {
	var out member.Member
	if err := t.do(ctx, http.MethodPost, "/members", nil, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) UpdateMember(ctx context.Context, id string, patch member.Patch) (*member.Member, error) {
	var out member.Member
	if err := t.do(ctx, http.MethodPut, "/members/"+url.PathEscape(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) DeleteMember(ctx context.Context, id string) error {
	return t.do(ctx, http.MethodDelete, "/members/"+url.PathEscape(id), nil, nil, nil)
}

func (t *HTTPTransport) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	q := dto.TransactionQueryOf(filter)
	var out []*transaction.Transaction
	err := t.do(ctx, http.MethodGet, "/transactions", query("keyword", q.Keyword, "status", q.Status), nil, &out)
	return out, err
}

func (t *HTTPTransport) IssueBook(ctx context.Context, bookID, memberID string) (*transaction.Transaction, error) {
	var out transaction.Transaction
	req := dto.IssueRequest{BookID: bookID, MemberID: memberID}
	if err := t.do(ctx, http.MethodPost, "/transactions/issue", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *HTTPTransport) ReturnBook(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	var out transaction.Transaction
	if err := t.do(ctx, http.MethodPut, "/transactions/"+url.PathEscape(transactionID)+"/return", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// query 把成对的key/value转换为查询参数,忽略空值
func query(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			v.Set(kv[i], kv[i+1])
		}
	}
	return v
}

// do 发送请求并解析统一响应外壳,out为nil时忽略data
func (t *HTTPTransport) do(ctx context.Context, method, path string, q url.Values, body, out interface{}) error {
	target := t.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.ErrInvalidParams.WithDetail(err.Error())
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.NewTransportError(fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode))
	}

	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.NewTransportError(fmt.Errorf("%s %s: 无法解析响应(HTTP %d): %w", method, path, resp.StatusCode, err))
	}
	if env.Code != 0 {
		return apperrors.New(env.Code, env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewTransportError(fmt.Errorf("%s %s: 无法解析data: %w", method, path, err))
	}
	return nil
}
