package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. TotalCopies是馆藏总数,AvailableCopies是当前可借数量
// 2. 不变量: 0 <= AvailableCopies <= TotalCopies
// 3. AvailableCopies只能通过CheckOut/CheckIn(借出/归还)改变,
//    修改馆藏总数时按差值同步平移(见Apply)
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	ISBN            string    `json:"isbn"`
	PublishedDate   string    `json:"publishedDate"` // YYYY-MM-DD
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	Description     string    `json:"description,omitempty"`
	CoverURL        string    `json:"coverUrl,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// NewBook 根据表单创建图书(工厂方法)
// 新书的可借数量等于馆藏总数
func NewBook(id string, form FormData, now time.Time) *Book {
	return &Book{
		ID:              id,
		Title:           form.Title,
		Author:          form.Author,
		Genre:           form.Genre,
		ISBN:            form.ISBN,
		PublishedDate:   form.PublishedDate,
		TotalCopies:     form.TotalCopies,
		AvailableCopies: form.TotalCopies,
		Description:     form.Description,
		CoverURL:        DefaultCoverURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DefaultCoverURL 未上传封面时使用的默认封面
const DefaultCoverURL = "https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg?auto=compress&cs=tinysrgb&w=400"

// CheckOut 借出一本(领域行为)
// 业务规则:可借数量必须>0
func (b *Book) CheckOut(now time.Time) error {
	if b.AvailableCopies <= 0 {
		return ErrNoCopiesAvailable
	}
	b.AvailableCopies--
	b.UpdatedAt = now
	return nil
}

// CheckIn 归还一本(领域行为)
// 归还后超过馆藏总数说明数据已经不一致,返回ErrAvailabilityOverflow交给调用方上报,
// 实体本身保持不变
func (b *Book) CheckIn(now time.Time) error {
	if b.AvailableCopies >= b.TotalCopies {
		return ErrAvailabilityOverflow
	}
	b.AvailableCopies++
	b.UpdatedAt = now
	return nil
}

// OnLoan 当前借出的副本数
func (b *Book) OnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// IsAvailable 是否还有可借副本
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// Apply 合并部分更新(只覆盖非nil字段)
// 修改TotalCopies时借出数量保持不变,可借数量按差值平移;
// 新总数小于已借出数量时拒绝
func (b *Book) Apply(p Patch, now time.Time) error {
	if p.TotalCopies != nil && *p.TotalCopies != b.TotalCopies {
		onLoan := b.OnLoan()
		if *p.TotalCopies < onLoan {
			return ErrTotalBelowOnLoan
		}
		b.AvailableCopies = *p.TotalCopies - onLoan
		b.TotalCopies = *p.TotalCopies
	}
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.PublishedDate != nil {
		b.PublishedDate = *p.PublishedDate
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	b.UpdatedAt = now
	return nil
}
