package cart

import (
	"context"
	"slices"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) *RedisCartRepository {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCartRepository(client)
}

func TestCartAddListRemove(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, "u1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Add(ctx, "u1", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// duplicate add is a no-op
	if err := repo.Add(ctx, "u1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slices.Sort(ids)
	if !slices.Equal(ids, []int64{3, 7}) {
		t.Fatalf("cart = %v, want [3 7]", ids)
	}

	if err := repo.Remove(ctx, "u1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, err = repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ids, []int64{7}) {
		t.Fatalf("cart = %v, want [7]", ids)
	}
}

func TestCartIsolatedPerUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, "u1", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := repo.List(ctx, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("u2 cart = %v, want empty", ids)
	}
}

func TestCartClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if err := repo.Add(ctx, "u1", id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := repo.Clear(ctx, "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("cart = %v, want empty after clear", ids)
	}
}
