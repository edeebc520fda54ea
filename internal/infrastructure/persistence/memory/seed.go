package memory

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

// Seed 种子数据：4本图书、3位会员、3条借阅记录
// 借阅记录只保存issued/returned，3号记录到期日为2024-01-15，读取时推导为overdue
func Seed(db *DB) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, b := range seedBooks() {
		db.books.put(b.ID, b)
	}
	for _, m := range seedMembers() {
		db.members.put(m.ID, m)
	}
	for _, t := range seedTransactions() {
		db.transactions.put(t.ID, t)
	}
}

// NewSeededDB 创建并填充种子数据
func NewSeededDB() *DB {
	db := NewDB()
	Seed(db)
	return db
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedBooks() []*book.Book {
	const (
		coverLibrary = "https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg?auto=compress&cs=tinysrgb&w=400"
		coverShelf   = "https://images.pexels.com/photos/1029141/pexels-photo-1029141.jpeg?auto=compress&cs=tinysrgb&w=400"
	)
	created := day("2023-01-01")
	return []*book.Book{
		{
			ID: "1", Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction",
			ISBN: "978-0-06-112008-4", PublishedDate: "1960-07-11", TotalCopies: 5, AvailableCopies: 3,
			Description: "A gripping, heart-wrenching, and wholly remarkable tale of coming-of-age in a South poisoned by virulent prejudice.",
			CoverURL:    coverLibrary, CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: "2", Title: "1984", Author: "George Orwell", Genre: "Dystopian Fiction",
			ISBN: "978-0-452-28423-4", PublishedDate: "1949-06-08", TotalCopies: 4, AvailableCopies: 2,
			Description: "A dystopian social science fiction novel that explores the consequences of totalitarianism and mass surveillance.",
			CoverURL:    coverShelf, CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: "3", Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance",
			ISBN: "978-0-14-143951-8", PublishedDate: "1813-01-28", TotalCopies: 6, AvailableCopies: 4,
			Description: "A romantic novel that critiques the British landed gentry at the end of the 18th century.",
			CoverURL:    coverShelf, CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: "4", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction",
			ISBN: "978-0-7432-7356-5", PublishedDate: "1925-04-10", TotalCopies: 3, AvailableCopies: 1,
			Description: "A classic American novel set in the Jazz Age that explores themes of wealth, love, and the American Dream.",
			CoverURL:    coverLibrary, CreatedAt: created, UpdatedAt: created,
		},
	}
}

func seedMembers() []*member.Member {
	return []*member.Member{
		{
			ID: "1", Name: "John Doe", Email: "john.doe@email.com", Phone: "+1-555-0123",
			Address: "123 Main St, City, State 12345", MembershipDate: "2023-01-15",
			IsActive: true, MembershipType: member.MembershipStandard,
		},
		{
			ID: "2", Name: "Jane Smith", Email: "jane.smith@email.com", Phone: "+1-555-0456",
			Address: "456 Oak Ave, City, State 12345", MembershipDate: "2023-03-20",
			IsActive: true, MembershipType: member.MembershipPremium,
		},
		{
			ID: "3", Name: "Bob Johnson", Email: "bob.johnson@email.com", Phone: "+1-555-0789",
			Address: "789 Pine Rd, City, State 12345", MembershipDate: "2023-06-10",
			IsActive: false, MembershipType: member.MembershipStudent,
		},
	}
}

func seedTransactions() []*transaction.Transaction {
	returned := day("2024-01-22")
	return []*transaction.Transaction{
		{
			ID: "1", BookID: "1", MemberID: "1", BookTitle: "To Kill a Mockingbird", MemberName: "John Doe",
			IssueDate: day("2024-01-15"), DueDate: day("2024-01-29"), Status: transaction.StatusIssued,
		},
		{
			ID: "2", BookID: "2", MemberID: "2", BookTitle: "1984", MemberName: "Jane Smith",
			IssueDate: day("2024-01-10"), DueDate: day("2024-01-24"), ReturnDate: &returned,
			Status: transaction.StatusReturned,
		},
		{
			ID: "3", BookID: "3", MemberID: "1", BookTitle: "Pride and Prejudice", MemberName: "John Doe",
			IssueDate: day("2024-01-01"), DueDate: day("2024-01-15"), Status: transaction.StatusIssued,
		},
	}
}
