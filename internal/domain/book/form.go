package book

import (
	"github.com/xiebiao/library/pkg/validator"
)

// FormData 新增图书的表单输入
type FormData struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Genre         string `json:"genre" validate:"required"`
	ISBN          string `json:"isbn" validate:"required,isbn"`
	PublishedDate string `json:"publishedDate" validate:"required,datetime=2006-01-02"`
	TotalCopies   int    `json:"totalCopies" validate:"gt=0"`
	Description   string `json:"description,omitempty"`
}

// Validate 校验表单
func (f FormData) Validate() error {
	return validator.Struct(f)
}

// Patch 部分更新,nil表示不修改该字段
type Patch struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Author        *string `json:"author,omitempty" validate:"omitempty,min=1"`
	Genre         *string `json:"genre,omitempty" validate:"omitempty,min=1"`
	ISBN          *string `json:"isbn,omitempty" validate:"omitempty,isbn"`
	PublishedDate *string `json:"publishedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TotalCopies   *int    `json:"totalCopies,omitempty" validate:"omitempty,gt=0"`
	Description   *string `json:"description,omitempty"`
}

// Validate 校验部分更新
func (p Patch) Validate() error {
	return validator.Struct(p)
}

// IsEmpty 没有任何需要修改的字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Genre == nil && p.ISBN == nil &&
		p.PublishedDate == nil && p.TotalCopies == nil && p.Description == nil
}
