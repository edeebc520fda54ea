package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// run 使用本地种子数据执行一条命令
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append(args, "--local"))
	err := cmd.Execute()
	return out.String(), err
}

func TestBooksList(t *testing.T) {
	out, err := run(t, "books", "list", "--keyword", "orwell")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "1984")
	assert.Contains(t, out, "2/4")
	assert.NotContains(t, out, "Pride and Prejudice")
}

func TestMembersList(t *testing.T) {
	out, err := run(t, "members", "list", "--type", "premium")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Smith")
	assert.NotContains(t, out, "John Doe")
}

func TestIssueAndReturn(t *testing.T) {
	out, err := run(t, "issue", "4", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "The Great Gatsby")
	assert.Contains(t, out, "issued")

	out, err = run(t, "return", "2")
	assert.ErrorIs(t, err, transaction.ErrAlreadyReturned)
	assert.Empty(t, out)
}

func TestIssue_InactiveMember(t *testing.T) {
	_, err := run(t, "issue", "1", "3")
	assert.ErrorIs(t, err, member.ErrMemberInactive)
}

func TestDashboardJSON(t *testing.T) {
	out, err := run(t, "dashboard", "--json")
	require.NoError(t, err)

	var d library.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, 4, d.TotalBooks)
	assert.Equal(t, 3, d.TotalMembers)
	assert.Equal(t, 3, d.TotalTransactions)
	assert.Equal(t, 2, d.ActiveMembers)
}

func TestEvents_RequiresMQ(t *testing.T) {
	_, err := run(t, "events")
	assert.Error(t, err)
}

func TestArgsValidation(t *testing.T) {
	_, err := run(t, "issue", "1")
	assert.Error(t, err)
}
