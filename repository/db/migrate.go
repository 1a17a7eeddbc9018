package db

import (
	"errors"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func Migration(dbStr, migratePath string) error {
	m, err := migrate.New("file://"+migratePath, dbStr)
	if err != nil {
		log.Println("[ERROR] Не удалось инициализировать мигратор:", err)
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Println("[WARN] Ошибка закрытия источника миграций:", srcErr)
		}
		if dbErr != nil {
			log.Println("[WARN] Ошибка закрытия соединения мигратора:", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("[INFO] Новых миграций нет")
			return nil
		}
		log.Println("[ERROR] Не удалось применить миграции:", err)
		return err
	}

	return nil
}
