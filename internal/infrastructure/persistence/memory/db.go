// Package memory 内存仓储实现
//
// 用途:
// 1. server.storage=memory 时作为API服务的存储（演示、本地开发）
// 2. 控制台在API不可用时的本地种子数据（LocalTransport）
// 3. 业务用例的单元测试
//
// 并发模型: 所有表共用一把互斥锁。TxManager在整个事务期间持有锁，
// 事务内的仓储调用通过ctx识别出已持锁，不再重复加锁；fn返回error或panic时恢复事务开始前的快照。
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/domain/transaction"
)

type txKey struct{}

// table 按插入顺序保存记录
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id string, row *T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id string) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *table[T]) all() []*T {
	out := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// clone 深拷贝（行内容按值复制，供事务回滚）
func (t *table[T]) clone(copyRow func(*T) *T) table[T] {
	c := table[T]{rows: make(map[string]*T, len(t.rows)), order: append([]string(nil), t.order...)}
	for id, row := range t.rows {
		c.rows[id] = copyRow(row)
	}
	return c
}

// DB 内存数据库
type DB struct {
	mu           sync.Mutex
	books        table[book.Book]
	members      table[member.Member]
	transactions table[transaction.Transaction]
}

// NewDB 创建空的内存数据库
func NewDB() *DB {
	return &DB{
		books:        newTable[book.Book](),
		members:      newTable[member.Member](),
		transactions: newTable[transaction.Transaction](),
	}
}

// run 在锁内执行fn；已在事务中（锁已持有）时直接执行
func (db *DB) run(ctx context.Context, fn func()) {
	if inTx(ctx) {
		fn()
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	fn()
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// TxManager 内存事务管理器
type TxManager struct {
	db *DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 串行执行事务，fn返回error或panic时回滚到事务开始前的状态
// 嵌套调用直接复用外层事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	db := m.db
	db.mu.Lock()
	defer db.mu.Unlock()

	books := db.books.clone(copyBook)
	members := db.members.clone(copyMember)
	txs := db.transactions.clone(copyTransaction)

	rollback := func() {
		db.books, db.members, db.transactions = books, members, txs
	}
	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}
	return nil
}

func copyBook(b *book.Book) *book.Book {
	c := *b
	return &c
}

func copyMember(m *member.Member) *member.Member {
	c := *m
	return &c
}

func copyTransaction(t *transaction.Transaction) *transaction.Transaction {
	c := *t
	if t.ReturnDate != nil {
		d := *t.ReturnDate
		c.ReturnDate = &d
	}
	if t.Fine != nil {
		f := *t.Fine
		c.Fine = &f
	}
	return &c
}
