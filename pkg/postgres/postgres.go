package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safety_coordination_system/internal/config"
)

// PoolConfig разбирает DATABASE_URL и настраивает пул: размер из DB_MAX_CONNS,
// сессии в UTC, чтобы сроки обязательств и таймеров сравнивались без смещения.
func PoolConfig(appCfg *config.Config) (*pgxpool.Config, error) {
	cfgPool, err := pgxpool.ParseConfig(appCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе конфигурации postgres: %w", err)
	}
	if appCfg.DBMaxConns > 0 {
		cfgPool.MaxConns = int32(appCfg.DBMaxConns)
	}
	cfgPool.ConnConfig.RuntimeParams["timezone"] = "UTC"
	cfgPool.ConnConfig.RuntimeParams["application_name"] = "safety-engine"
	return cfgPool, nil
}

// NewPostgresDB создает пул соединений PostgreSQL и проверяет, что установлен PostGIS
func NewPostgresDB(ctx context.Context, appCfg *config.Config) (*pgxpool.Pool, error) {
	cfgPool, err := PoolConfig(appCfg)
	if err != nil {
		return nil, err
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, cfgPool)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}

	// Проверяем соединение с базой данных
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("не удалось выполнить ping к postgres: %w", err)
	}

	if err := checkPostGIS(ctx, dbpool); err != nil {
		dbpool.Close()
		return nil, err
	}

	return dbpool, nil
}

// checkPostGIS проверяет доступность расширения, без него не работают колонки геозон
func checkPostGIS(ctx context.Context, db *pgxpool.Pool) error {
	var available bool
	err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_available_extensions WHERE name = 'postgis');`).Scan(&available)
	if err != nil {
		return fmt.Errorf("не удалось проверить расширение postgis: %w", err)
	}
	if !available {
		return fmt.Errorf("расширение postgis недоступно на сервере")
	}
	return nil
}
