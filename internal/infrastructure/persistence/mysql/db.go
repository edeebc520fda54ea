package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. database.auto_migrate=true时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突转换为gorm.ErrDuplicatedKey
		NowFunc:        time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	// 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&MemberModel{},
		&TransactionModel{},
	)
}

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，包含GORM tag；domain/book/entity.go不依赖GORM
// 2. ID使用ULID字符串（26位），按时间有序
// 3. CHECK约束兜底: 0 <= available_copies <= total_copies
type BookModel struct {
	ID              string         `gorm:"primaryKey;size:26"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author          string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Genre           string         `gorm:"index;size:50;not null;comment:类别"`
	ISBN            string         `gorm:"index;size:20;not null;comment:ISBN号"`
	PublishedDate   string         `gorm:"size:10;comment:出版日期(YYYY-MM-DD)"`
	TotalCopies     int            `gorm:"not null;default:0;check:chk_books_total,total_copies >= 0;comment:馆藏总数"`
	AvailableCopies int            `gorm:"not null;default:0;check:chk_books_available,available_copies >= 0 AND available_copies <= total_copies;comment:可借数量"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	CoverURL        string         `gorm:"size:500;comment:封面图片URL"`
	CreatedAt       time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// MemberModel GORM会员模型
type MemberModel struct {
	ID             string         `gorm:"primaryKey;size:26"`
	Name           string         `gorm:"index;size:100;not null;comment:姓名"`
	Email          string         `gorm:"index;size:100;not null;comment:邮箱"`
	Phone          string         `gorm:"size:30;comment:电话"`
	Address        string         `gorm:"size:255;comment:地址"`
	MembershipDate string         `gorm:"size:10;comment:入会日期(YYYY-MM-DD)"`
	IsActive       bool           `gorm:"not null;default:true;comment:是否激活"`
	MembershipType string         `gorm:"size:16;not null;comment:会员类型(standard/premium/student)"`
	CreatedAt      time.Time      `gorm:"comment:创建时间"`
	UpdatedAt      time.Time      `gorm:"comment:更新时间"`
	DeletedAt      gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// TransactionModel GORM借阅记录模型
// 教学要点:
// 1. book_title/member_name是借出时的快照，图书、会员删除后历史记录仍可展示
// 2. status只存issued/returned，overdue在读取时推导
// 3. 罚款使用DECIMAL，shopspring/decimal负责与数据库之间的转换
type TransactionModel struct {
	ID         string              `gorm:"primaryKey;size:26"`
	BookID     string              `gorm:"index:idx_book_open;size:26;not null;comment:图书ID"`
	MemberID   string              `gorm:"index:idx_member_open;size:26;not null;comment:会员ID"`
	BookTitle  string              `gorm:"size:200;not null;comment:书名快照"`
	MemberName string              `gorm:"size:100;not null;comment:会员姓名快照"`
	IssueDate  time.Time           `gorm:"index;not null;comment:借出时间"`
	DueDate    time.Time           `gorm:"not null;comment:到期时间"`
	ReturnDate *time.Time          `gorm:"comment:归还时间"`
	Status     string              `gorm:"index:idx_book_open;index:idx_member_open;size:16;not null;comment:状态(issued/returned)"`
	Fine       decimal.NullDecimal `gorm:"type:decimal(12,2);comment:罚款"`
	CreatedAt  time.Time           `gorm:"comment:创建时间"`
	UpdatedAt  time.Time           `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (TransactionModel) TableName() string {
	return "transactions"
}
