package main

import (
	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/clock"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/config"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/migration"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/observability"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/server"
	"github.com/sistemascrenat/liquidaciones-sub000/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(RegisterRedis),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// RegisterRedis builds the shared redis client used by the recalculation
// guard. Without REDIS_ADDR the guard degrades to its in-process flag.
func RegisterRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
