// cmd/main.go
package main

import (
	"context"
	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/di"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// DI 컨테이너 생성
	container, err := di.NewContainer(cfg)
	if err != nil {
		panic("Failed to create DI container: " + err.Error())
	}
	defer container.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.Service.Start(ctx); err != nil {
		container.Logger.Fatalf("Failed to start orchestrator: %v", err)
	}

	container.Logger.Infof("Fleet orchestrator running: cycle every %s, HTTP on :%s",
		container.Config.GetCycleInterval(), container.Config.GetHTTPPort())

	// 우아한 종료 처리
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	container.Logger.Infof("Shutdown signal received")
	cancel()
}
