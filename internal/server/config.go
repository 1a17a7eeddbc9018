package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"taska/internal/domain/errors"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	Port        int
	DBStr       string
	MigratePath string
	JWTSecret   string
	TokenTTL    int
}

const (
	defaultAddr        = "0.0.0.0"
	defaultPort        = 8080
	defaultDBStr       = "postgresql://shouldbeinVaultuser:shouldbeinVaultpassword@db:5432/taska?sslmode=disable"
	defaultMigratePath = "migrations"
	defaultJWTSecret   = "shouldbeinVaultsecret"
	defaultTokenTTL    = 24
)

var (
	addr        = flag.String("addr", defaultAddr, "адрес сервера (по умолчанию 0.0.0.0)")
	port        = flag.Int("port", defaultPort, "порт сервера (по умолчанию 8080)")
	dbstr       = flag.String("dbstr", defaultDBStr, "строка подключения к БД (по умолчанию стандартная)")
	dbDsn       = flag.String("dbdsn", "", "DSN для подключения к базе данных (приоритетнее dbstr)")
	migratePath = flag.String("migratepath", defaultMigratePath, "путь к папке с миграциями")
	jwtSecret   = flag.String("jwtsecret", "", "секрет подписи сессионных токенов")
	configFile  = flag.String("c", "", "путь к файлу конфигурации JSON")
	parsed      = false
)

func ReadConfig() *Config {
	if !parsed {
		flag.Parse()
		parsed = true
	}

	_ = godotenv.Load()

	cfg := &Config{
		Addr:        defaultAddr,
		Port:        defaultPort,
		DBStr:       defaultDBStr,
		MigratePath: defaultMigratePath,
		JWTSecret:   defaultJWTSecret,
		TokenTTL:    defaultTokenTTL,
	}

	jsonConfig := loadJSONConfig()
	if jsonConfig != nil {
		cfg = jsonConfig
	}

	cfg = applyEnvOverrides(cfg)
	cfg = applyFlagOverrides(cfg)

	return cfg
}

func loadJSONConfig() *Config {
	configPath := *configFile
	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}

	if configPath == "" {
		return nil
	}

	log.Printf("Загрузка JSON конфигурации из: %s", configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("[WARN] %s %s: %v", errors.ErrConfigFileReadFailed.Error(), configPath, err)
		return nil
	}

	var jsonConfig Config
	if err := json.Unmarshal(data, &jsonConfig); err != nil {
		log.Printf("[WARN] %s: %v", errors.ErrConfigParseFailed.Error(), err)
		return nil
	}

	log.Printf("[SUCCESS] JSON конфигурация загружена из: %s", configPath)
	return &jsonConfig
}

func applyEnvOverrides(cfg *Config) *Config {
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err != nil {
			log.Printf("[WARN] %s в переменной окружения PORT: %s", errors.ErrConfigInvalidFormat.Error(), port)
		} else if p < 1 || p > 65535 {
			log.Printf("[WARN] %s - порт должен быть от 1 до 65535: %d", errors.ErrConfigInvalidFormat.Error(), p)
		} else {
			cfg.Port = p
		}
	}
	if dbStr := os.Getenv("DB_STR"); dbStr != "" {
		cfg.DBStr = dbStr
	}
	if migratePath := os.Getenv("MIGRATE_PATH"); migratePath != "" {
		cfg.MigratePath = migratePath
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err != nil || h < 1 {
			log.Printf("[WARN] %s в переменной окружения TOKEN_TTL: %s", errors.ErrConfigInvalidFormat.Error(), ttl)
		} else {
			cfg.TokenTTL = h
		}
	}

	if cfg.DBStr == defaultDBStr {
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		if dbUser != "" && dbPassword != "" && dbName != "" && dbHost != "" && dbPort != "" {
			cfg.DBStr = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, dbHost, dbPort, dbName)
		}
	}

	return cfg
}

func applyFlagOverrides(cfg *Config) *Config {
	cfg.Addr = *addr
	cfg.Port = *port
	cfg.MigratePath = *migratePath

	if *dbDsn != "" {
		cfg.DBStr = *dbDsn
	} else {
		cfg.DBStr = *dbstr
	}

	if *jwtSecret != "" {
		cfg.JWTSecret = *jwtSecret
	}

	return cfg
}
