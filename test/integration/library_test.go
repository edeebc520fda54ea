//go:build integration

package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// TestIssueReturnFlow 借出、重复借出、归还、重复归还
func TestIssueReturnFlow(t *testing.T) {
	base := BaseURL(t)
	b := CreateTestBook(t, base, "集成测试-借还流程", 1)
	m := CreateTestMember(t, base, "Integration Reader")

	resp := DoJSON(t, http.MethodPost, base+"/transactions/issue", map[string]string{"bookId": b.ID, "memberId": m.ID})
	require.Equal(t, 0, resp.Code, resp.Message)
	tx := Decode[TransactionData](t, resp)
	assert.Equal(t, "issued", tx.Status)

	book := Decode[BookData](t, DoJSON(t, http.MethodGet, base+"/books/"+b.ID, nil))
	assert.Equal(t, 0, book.AvailableCopies)

	t.Run("没有可借副本", func(t *testing.T) {
		resp := DoJSON(t, http.MethodPost, base+"/transactions/issue", map[string]string{"bookId": b.ID, "memberId": m.ID})
		assert.Equal(t, apperrors.ErrCodeNoCopiesAvailable, resp.Code)
	})

	t.Run("有借阅时不能删除", func(t *testing.T) {
		resp := DoJSON(t, http.MethodDelete, base+"/books/"+b.ID, nil)
		assert.Equal(t, apperrors.ErrCodeHasActiveLoans, resp.Code)
	})

	resp = DoJSON(t, http.MethodPut, base+"/transactions/"+tx.ID+"/return", nil)
	require.Equal(t, 0, resp.Code, resp.Message)
	returned := Decode[TransactionData](t, resp)
	assert.Equal(t, "returned", returned.Status)
	require.NotNil(t, returned.Fine)
	assert.Equal(t, "0", *returned.Fine)

	resp = DoJSON(t, http.MethodPut, base+"/transactions/"+tx.ID+"/return", nil)
	assert.Equal(t, apperrors.ErrCodeAlreadyReturned, resp.Code)

	book = Decode[BookData](t, DoJSON(t, http.MethodGet, base+"/books/"+b.ID, nil))
	assert.Equal(t, 1, book.AvailableCopies)

	resp = DoJSON(t, http.MethodDelete, base+"/books/"+b.ID, nil)
	assert.Equal(t, 0, resp.Code, resp.Message)
}

// TestConcurrentIssue 并发借同一本书的最后一册,只能成功一次
func TestConcurrentIssue(t *testing.T) {
	base := BaseURL(t)
	b := CreateTestBook(t, base, "集成测试-并发借阅", 1)
	m := CreateTestMember(t, base, "Concurrent Reader")

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		noCopy  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := DoJSON(t, http.MethodPost, base+"/transactions/issue", map[string]string{"bookId": b.ID, "memberId": m.ID})
			mu.Lock()
			defer mu.Unlock()
			switch resp.Code {
			case 0:
				success++
			case apperrors.ErrCodeNoCopiesAvailable:
				noCopy++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, workers-1, noCopy)

	book := Decode[BookData](t, DoJSON(t, http.MethodGet, base+"/books/"+b.ID, nil))
	assert.Equal(t, 0, book.AvailableCopies)
	t.Logf("✓ %d个并发请求,成功%d,库存不足%d", workers, success, noCopy)
}

// TestValidation 参数校验和不存在的资源
func TestValidation(t *testing.T) {
	base := BaseURL(t)

	resp := DoJSON(t, http.MethodPost, base+"/books", map[string]interface{}{"title": "缺少字段"})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)

	resp = DoJSON(t, http.MethodGet, base+"/books/not-exists", nil)
	assert.Equal(t, apperrors.ErrCodeBookNotFound, resp.Code)

	resp = DoJSON(t, http.MethodPost, base+"/transactions/issue", map[string]string{"bookId": "1"})
	assert.Equal(t, apperrors.ErrCodeBindError, resp.Code)
}
