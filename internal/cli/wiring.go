package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spice-theory/internal/app"
	"spice-theory/internal/card"
	"spice-theory/internal/config"
	"spice-theory/internal/infra/memory"
	pgloader "spice-theory/internal/infra/postgres"
	redisstore "spice-theory/internal/infra/redis"
	"spice-theory/internal/infra/source"
	"spice-theory/internal/logger"
)

// deps is everything a quiz command needs, built from config.
type deps struct {
	cfg      config.Config
	log      *zap.Logger
	banks    app.BankRepository
	progress app.ProgressStore

	redis *redis.Client
	pool  *pgxpool.Pool
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
	_ = d.log.Sync()
}

func newDeps(ctx context.Context, cfg config.Config, log *zap.Logger) (*deps, error) {
	d := &deps{cfg: cfg, log: log}

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	loader, err := d.bankLoader(ctx)
	if err != nil {
		d.Close()
		return nil, err
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	if d.redis != nil {
		d.banks = redisstore.NewBankRepository(d.redis, loader, bankTTL)
		d.progress = redisstore.NewProgressStore(d.redis, config.TTLDuration(cfg.Redis.TTL, 7*24*time.Hour))
	} else {
		d.banks = memory.NewBankRepository(loader, bankTTL)
		d.progress = memory.NewProgressStore()
	}
	return d, nil
}

func (d *deps) bankLoader(ctx context.Context) (memory.BankLoader, error) {
	timeout := config.TTLDuration(d.cfg.Bank.Timeout, 5*time.Second)
	switch d.cfg.Bank.Source {
	case "", config.SourceFile:
		return source.NewFile(d.cfg.Bank.Location), nil
	case config.SourceHTTP:
		return source.NewHTTP(d.cfg.Bank.Location, timeout, d.log)
	case config.SourcePostgres:
		if d.cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, d.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.pool = pool
		return pgloader.NewBankLoader(pool), nil
	default:
		return nil, fmt.Errorf("unknown bank source %q", d.cfg.Bank.Source)
	}
}

func policyFrom(cfg config.Config) app.Policy {
	p := app.DefaultPolicy()
	p.Tie = app.ParseTiePolicy(cfg.Quiz.TiePolicy)
	p.CollapsePure = cfg.CollapsePure()
	if cfg.Quiz.BonusMin > 0 {
		p.BonusMin = cfg.Quiz.BonusMin
	}
	if cfg.Quiz.BonusMax >= p.BonusMin {
		p.BonusMax = cfg.Quiz.BonusMax
	}
	return p
}

func newCardRenderer(cfg config.Config, log *zap.Logger) (*card.Renderer, error) {
	images := card.AutoLoader{
		File: card.FileLoader{Root: cfg.Card.AssetRoot},
		HTTP: card.NewHTTPLoader(config.TTLDuration(cfg.Bank.Timeout, 5*time.Second)),
	}
	return card.NewRenderer(images, cfg.Card.Watermark, log)
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
