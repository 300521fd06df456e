package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"goal-path/internal/app"
	"goal-path/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка создания приложения: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(); err != nil {
		log.Fatalf("❌ Ошибка запуска приложения: %v", err)
	}

	<-ctx.Done()
	log.Println("👋 Приложение завершает работу")

	if err := application.Stop(); err != nil {
		log.Printf("⚠️ Ошибка остановки: %v", err)
	}
}
