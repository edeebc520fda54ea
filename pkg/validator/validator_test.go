package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestDefault_RegistersISBN(t *testing.T) {
	v := Default()
	require.Same(t, v, Default())

	assert.NoError(t, v.Var("978-0-441-17271-9", "isbn"))
	assert.NoError(t, v.Var("0-452-28423-X", "isbn"))
	assert.Error(t, v.Var("12345", "isbn"))
}

func TestIsValidISBN(t *testing.T) {
	tests := []struct {
		isbn string
		want bool
	}{
		{"9780061120084", true},
		{"978-0-452-28423-4", true},
		{"0-452-28423-X", true},
		{"X-452-28423-0", false},
		{"978045228423X", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidISBN(tt.isbn), tt.isbn)
	}
}

func TestStruct(t *testing.T) {
	type form struct {
		Title string `json:"title" validate:"required"`
		ISBN  string `json:"isbn" validate:"required,isbn"`
		Count int    `json:"count" validate:"gt=0"`
	}

	assert.NoError(t, Struct(form{Title: "Dune", ISBN: "9780441172719", Count: 1}))

	err := Struct(form{ISBN: "abc"})
	require.ErrorIs(t, err, apperrors.ErrInvalidParams)
	msg := apperrors.GetAppError(err).Message
	assert.Contains(t, msg, "title不能为空")
	assert.Contains(t, msg, "isbn不是合法的ISBN")
	assert.Contains(t, msg, "count必须大于0")
}
