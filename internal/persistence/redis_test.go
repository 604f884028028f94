package persistence

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-gateway/internal/config"
)

func TestNewRedisDisabled(t *testing.T) {
	if r := NewRedis(config.RedisConfig{}, zap.NewNop()); r != nil {
		t.Fatalf("NewRedis() = %v, want nil without an address", r)
	}
}

func TestNilRedisPing(t *testing.T) {
	var r *Redis
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("Ping() on nil client should fail")
	}
	r.Close()
}

func TestNewPostgresWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), "", zap.NewNop())
	if err != nil || pg != nil {
		t.Fatalf("NewPostgres(\"\") = (%v, %v), want (nil, nil)", pg, err)
	}
}
