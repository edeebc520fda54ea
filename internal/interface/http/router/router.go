// Package router 组装gin引擎：全局中间件、业务路由、健康检查、指标和文档
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/library"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"

	_ "github.com/xiebiao/library/docs" // 注册swagger文档
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Book        *handler.BookHandler
	Member      *handler.MemberHandler
	Transaction *handler.TransactionHandler
}

// NewHandlers 基于同一个借阅服务创建所有处理器
func NewHandlers(svc *library.Service) Handlers {
	return Handlers{
		Book:        handler.NewBookHandler(svc),
		Member:      handler.NewMemberHandler(svc),
		Transaction: handler.NewTransactionHandler(svc),
	}
}

// New 创建gin引擎
// 中间件执行顺序：Recovery → Tracing → Logger → Metrics → CORS → Handler
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Logger(log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 生产环境建议禁用Swagger或添加访问控制
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("", h.Book.List)
			books.POST("", h.Book.Create)
			books.GET("/:id", h.Book.Get)
			books.PUT("/:id", h.Book.Update)
			books.DELETE("/:id", h.Book.Delete)
		}

		members := v1.Group("/members")
		{
			members.GET("", h.Member.List)
			members.POST("", h.Member.Create)
			members.GET("/:id", h.Member.Get)
			members.PUT("/:id", h.Member.Update)
			members.DELETE("/:id", h.Member.Delete)
		}

		txs := v1.Group("/transactions")
		{
			txs.GET("", h.Transaction.List)
			txs.POST("/issue", h.Transaction.Issue)
			txs.GET("/:id", h.Transaction.Get)
			txs.PUT("/:id/return", h.Transaction.Return)
		}

		v1.GET("/dashboard", h.Transaction.Dashboard)
	}

	return r
}
