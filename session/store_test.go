package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, "sg", time.Hour), mr
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := &Session{
		ID:           "user-1",
		Email:        "broker@example.com",
		Role:         RoleBroker,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		Profile: Profile{
			Name:          "Dana",
			BrokerageCode: "BR-042",
			City:          "Monterrey",
		},
	}

	if err := store.Save(ctx, "t1", "client-a", want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Load(ctx, "t1", "client-a")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "t1", "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreTenantIsolation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "t1", "client-a", testSession("u1")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := store.Load(ctx, "t2", "client-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected tenant isolation, got %v", err)
	}
}

func TestStoreCorruptBlobDeleted(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set("sg:sess:t1:client-a", "{not json")

	if _, err := store.Load(ctx, "t1", "client-a"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}

	// Corrupt blobs are removed so the next attempt sees a clean miss.
	if _, err := store.Load(ctx, "t1", "client-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after corrupt delete, got %v", err)
	}
}

func TestStoreRejectsSchemaVersionMismatch(t *testing.T) {
	store, mr := newTestStore(t)

	mr.Set("sg:sess:t1:client-a", `{"v":99,"id":"u1","email":"u1@example.com"}`)

	if _, err := store.Load(context.Background(), "t1", "client-a"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for unknown schema version, got %v", err)
	}
}

func TestStoreDeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "t1", "client-a", testSession("u1")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, "t1", "client-a"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := store.Delete(ctx, "t1", "client-a"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "t1", "client-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreSaveIncompleteSessionRejected(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Save(context.Background(), "t1", "client-a", &Session{ID: "u1"})
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected rejection of incomplete session, got %v", err)
	}
}

func TestStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if _, err := store.Load(context.Background(), "t1", "client-a"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
