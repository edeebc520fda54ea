//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 运行 `wire gen ./cmd/api` 生成 wire_gen.go,替换手写的 inject.go

package main

import (
	"net/http"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// infrastructureSet 存储和事件发布
var infrastructureSet = wire.NewSet(
	provideStorage,
	provideEvents,
)

// applicationSet 借阅规则和借阅服务
var applicationSet = wire.NewSet(
	providePolicy,
	provideService,
)

// interfaceSet HTTP服务
var interfaceSet = wire.NewSet(
	provideServer,
)

func initializeServer(cfg *config.Config, log *zap.Logger) (*http.Server, func(), error) {
	wire.Build(infrastructureSet, applicationSet, interfaceSet)
	return nil, nil, nil
}
