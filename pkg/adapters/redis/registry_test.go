package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/castlet/castlet/pkg/adapters/redis"
	"github.com/castlet/castlet/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRegistry_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	// Initialize client
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Run contract
	reg := redis.NewFromClient(client)
	ports.RunApplicationRegistryContract(t, reg)
}

func TestRedisRegistry_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	reg := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	require.NoError(t, reg.Register(context.Background(), "https://host/app", "ID1"))

	val, err := mr.Get("custom:https://host/app")
	require.NoError(t, err)
	assert.Equal(t, "ID1", val)
}
