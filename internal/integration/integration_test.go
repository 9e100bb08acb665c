package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"spice-theory/internal/app"
	"spice-theory/internal/domain"
	pgloader "spice-theory/internal/infra/postgres"
	infraredis "spice-theory/internal/infra/redis"
	pgmigrations "spice-theory/internal/infra/postgres/migrations"
)

func TestPostgresBankThroughRedisEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateBanks(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewBankLoader(pool)
	if err := loader.SaveBank(ctx, "archetypes", sampleBank()); err != nil {
		t.Fatalf("seed bank: %v", err)
	}
	broken := sampleBank()
	broken.Questions = nil
	var cfgErr *domain.ConfigurationError
	if err := loader.SaveBank(ctx, "broken", broken); !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error for invalid bank, got %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	banks := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)
	progress := infraredis.NewProgressStore(redisClient, 5*time.Minute)

	bank, err := banks.GetBank(ctx, "archetypes")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if _, err := banks.GetBank(ctx, "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	engine := app.NewEngine(bank, app.NewRand(11), app.DefaultPolicy())
	ctrl := app.NewController(engine, progress, "alice", nil)
	if _, err := ctrl.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctrl.Dispatch(ctx, app.Select{Index: 0, Category: "posh"})
	ctrl.Dispatch(ctx, app.Advance{})

	// A second controller picks the session up from Redis.
	resumed := app.NewController(engine, progress, "alice", nil)
	state, err := resumed.Resume(ctx)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if state.SessionID != ctrl.State().SessionID || state.Main.Index != 1 {
		t.Fatalf("expected resumed session at question 2, got %+v", state.Main)
	}
	for i := 1; i < state.Main.Len(); i++ {
		resumed.Dispatch(ctx, app.Select{Index: i, Category: "baby"})
		resumed.Dispatch(ctx, app.Advance{})
	}

	sum, err := resumed.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Result.Primary != "baby" || sum.Result.Secondary != "posh" {
		t.Fatalf("unexpected result %+v", sum.Result)
	}
	if sum.Result.PrimaryPercent+sum.Result.SecondaryPercent != 100 {
		t.Fatalf("percentages should sum to 100, got %+v", sum.Result)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateBanks(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleBank() domain.Bank {
	both := []domain.Option{
		{Label: "Champagne", Category: "posh"},
		{Label: "Milkshake", Category: "baby"},
	}
	return domain.Bank{
		Categories: []domain.Category{{Key: "posh", Name: "Posh"}, {Key: "baby", Name: "Baby"}},
		Questions: []domain.Question{
			{Text: "Pick a drink", Options: both},
			{Text: "Pick a night out", Options: both},
			{Text: "Pick a jacket", Options: both},
		},
		Bonus:        []domain.Question{{Text: "Pick a song", Options: both}},
		ResultBlurbs: map[string]string{"baby:posh": "Sweet with a polished edge."},
		Descriptions: map[string]string{"posh": "Polished.", "baby": "Sweet."},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
