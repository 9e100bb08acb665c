package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"spice-theory/internal/domain"
	"spice-theory/internal/infra/memory"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		BankLoader: memory.NewStaticBankLoader(map[string]domain.Bank{
			"spice": sampleBank(),
		}),
	}
	repo := NewBankRepository(client, loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "spice")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("spice:bank:spice") {
		t.Fatalf("expected bank cached in redis")
	}
	if ttl := mr.TTL("spice:bank:spice"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	again, _ := repo.GetBank(context.Background(), "spice")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if again.Questions[0].Text != bank.Questions[0].Text {
		t.Fatalf("cached bank differs from loaded bank")
	}
}

func TestBankRepositoryConcurrentIDs(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	banks := make(map[string]domain.Bank)
	for i := 0; i < 16; i++ {
		banks[fmt.Sprintf("bank-%d", i)] = sampleBank()
	}
	repo := NewBankRepository(newClient(mr), memory.NewStaticBankLoader(banks), time.Minute)

	var wg sync.WaitGroup
	for id := range banks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.GetBank(context.Background(), id); err != nil {
				t.Errorf("get %s: %v", id, err)
			}
		}()
	}
	wg.Wait()
	for id := range banks {
		ttl := mr.TTL("spice:bank:" + id)
		if ttl < time.Minute || ttl > time.Minute+6*time.Second {
			t.Fatalf("%s: ttl %v outside ttl plus jitter", id, ttl)
		}
	}
}

func TestBankRepositoryIgnoresCorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("spice:bank:spice", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}
	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(map[string]domain.Bank{"spice": sampleBank()})}
	repo := NewBankRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), "spice"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("corrupt entry should fall through to the loader")
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx, bankID)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		Categories: []domain.Category{{Key: "posh", Name: "Posh"}, {Key: "baby", Name: "Baby"}},
		Questions: []domain.Question{
			{
				Text: "Pick a drink",
				Options: []domain.Option{
					{Label: "Champagne", Category: "posh"},
					{Label: "Milkshake", Category: "baby"},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
