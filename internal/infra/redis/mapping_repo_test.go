//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// fakeClient is an in-memory stand-in for the redis client.
type fakeClient struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeClient) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeClient) Close() error { return nil }

func TestRedisMappingRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("record stores under the mapping key with the ttl", func(t *testing.T) {
		client := newFakeClient()
		repo := NewMappingRepo(client, 30*time.Minute)

		if err := repo.Record(ctx, "op-1", "cb-1"); err != nil {
			t.Fatalf("record: %v", err)
		}

		if client.data["mapping:op-1"] != "cb-1" {
			t.Errorf("unexpected stored data %v", client.data)
		}
		if client.ttls["mapping:op-1"] != 30*time.Minute {
			t.Errorf("unexpected ttl %v", client.ttls["mapping:op-1"])
		}
	})

	t.Run("lookup round-trips", func(t *testing.T) {
		client := newFakeClient()
		repo := NewMappingRepo(client, time.Hour)

		_ = repo.Record(ctx, "op-1", "cb-1")

		cb, ok, err := repo.Lookup(ctx, "op-1")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if !ok || cb != "cb-1" {
			t.Errorf("expected cb-1, got %q ok=%v", cb, ok)
		}
	})

	t.Run("missing key reads as absent, not an error", func(t *testing.T) {
		client := newFakeClient()
		repo := NewMappingRepo(client, time.Hour)

		_, ok, err := repo.Lookup(ctx, "nope")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if ok {
			t.Error("expected absent")
		}
	})

	t.Run("transport failure surfaces as an error", func(t *testing.T) {
		client := newFakeClient()
		client.getErr = errors.New("connection refused")
		repo := NewMappingRepo(client, time.Hour)

		_, _, err := repo.Lookup(ctx, "op-1")
		if err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}
