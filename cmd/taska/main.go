package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taska/internal/server"
	db "taska/repository/db"
	inmemory "taska/repository/inmemory"
)

// TaskServer — то, что умеет запускаться и останавливаться.
type TaskServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func RunMigrations(cfg *server.Config) error {
	return db.Migration(cfg.DBStr, cfg.MigratePath)
}

// InitializeRepositories пробует подключиться к Postgres; при неудаче
// откатывается на хранилище в памяти, чтобы сервис всё равно поднялся.
func InitializeRepositories(cfg *server.Config) (server.Repository, server.TaskRepository, error) {
	dbStorage, err := db.NewStorage(cfg.DBStr)
	if err != nil {
		log.Println("[WARN] Не удалось подключиться к БД, используем память:", err)
		inmem := inmemory.NewStorage()
		return inmem, inmem, nil
	}
	return dbStorage, dbStorage, nil
}

func StartServer(api TaskServer, cfg *server.Config) (chan os.Signal, chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Сервис запущен на %s:%d", cfg.Addr, cfg.Port)
		if err := api.Start(); err != nil {
			serverErr <- err
		}
	}()

	return sigChan, serverErr
}

func HandleShutdown(api TaskServer, sig os.Signal) error {
	log.Printf("[INFO] Получен сигнал %v, начинаем graceful shutdown...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return api.Shutdown(shutdownCtx)
}

func main() {
	log.Println("Запуск сервиса Taska...")

	cfg := server.ReadConfig()

	if err := RunMigrations(cfg); err != nil {
		log.Printf("[WARN] Не удалось применить миграции: %v", err)
	} else {
		log.Println("[SUCCESS] Миграции применены успешно")
	}

	userRepo, taskRepo, err := InitializeRepositories(cfg)
	if err != nil {
		log.Fatalf("[ERROR] Ошибка инициализации хранилищ: %v", err)
	}

	api := server.NewTaskAPI(userRepo, taskRepo, cfg)
	if api == nil {
		log.Fatal("[ERROR] Не удалось инициализировать API")
	}

	sigChan, serverErr := StartServer(api, cfg)

	select {
	case sig := <-sigChan:
		if err := HandleShutdown(api, sig); err != nil {
			log.Printf("[ERROR] Ошибка при graceful shutdown: %v", err)
		} else {
			log.Println("[SUCCESS] Graceful shutdown выполнен успешно")
		}

	case err := <-serverErr:
		log.Printf("[ERROR] Ошибка сервера: %v", err)
	}

	log.Println("Сервис завершен")
}
