package main

import (
	"database/sql"
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/kuiz-api/internal/config"
	"github.com/yourusername/kuiz-api/internal/logger"
)

// Утилита обслуживания схемы: up, down, version, force N
func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config/config.yaml"), "путь к файлу конфигурации")
	dir := flag.String("dir", "migrations", "каталог с SQL-миграциями")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Не удалось загрузить конфигурацию")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Не удалось открыть соединение с БД")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("БД недоступна")
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Не удалось создать драйвер migrate")
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+*dir, "postgres", driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Не удалось создать экземпляр migrate")
	}

	command := flag.Arg(0)
	switch command {
	case "", "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "force":
		version, convErr := strconv.Atoi(flag.Arg(1))
		if convErr != nil {
			log.Fatal().Str("arg", flag.Arg(1)).Msg("force требует номер версии")
		}
		// Снимает флаг dirty после неудачной миграции
		err = m.Force(version)
	case "version":
	default:
		log.Fatal().Str("command", command).Msg("Неизвестная команда; ожидается up, down, version или force N")
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("command", command).Msg("Ошибка выполнения миграции")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.Fatal().Err(err).Msg("Не удалось получить версию схемы")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Состояние схемы")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
