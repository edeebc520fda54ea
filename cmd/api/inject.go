//go:build !wireinject
// +build !wireinject

package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// initializeServer 手动组装依赖,与wire.go中的injector等价
// 执行wire gen后由生成的wire_gen.go取代
func initializeServer(cfg *config.Config, log *zap.Logger) (*http.Server, func(), error) {
	s, cleanupStorage, err := provideStorage(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	policy, err := providePolicy(cfg)
	if err != nil {
		cleanupStorage()
		return nil, nil, err
	}
	events, cleanupEvents, err := provideEvents(cfg, log)
	if err != nil {
		cleanupStorage()
		return nil, nil, err
	}
	svc := provideService(s, policy, events, log)
	return provideServer(cfg, log, svc), func() {
		cleanupEvents()
		cleanupStorage()
	}, nil
}
