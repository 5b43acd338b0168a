package ports

import (
	"context"
	"testing"
	"time"

	"github.com/castlet/castlet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunApplicationRegistryContract runs a suite of tests verifying that an
// ApplicationRegistry implementation adheres to the interface contract.
func RunApplicationRegistryContract(t *testing.T, reg ApplicationRegistry) {
	ctx := context.Background()
	url := "https://contract.test/app-" + time.Now().Format("20060102150405")

	t.Run("Register and Lookup", func(t *testing.T) {
		err := reg.Register(ctx, url, "APP-1")
		require.NoError(t, err, "Register should not return error")

		id, err := reg.Lookup(ctx, url)
		require.NoError(t, err, "Lookup should not return error")
		assert.Equal(t, "APP-1", id)
	})

	t.Run("Lookup Non-Existent", func(t *testing.T) {
		_, err := reg.Lookup(ctx, "https://contract.test/nowhere")
		assert.ErrorIs(t, err, domain.ErrAppNotRegistered)
	})

	t.Run("Re-Register Overwrites", func(t *testing.T) {
		require.NoError(t, reg.Register(ctx, url, "APP-1"))
		require.NoError(t, reg.Register(ctx, url, "APP-2"))

		id, err := reg.Lookup(ctx, url)
		require.NoError(t, err)
		assert.Equal(t, "APP-2", id, "later registration wins")
	})

	t.Run("Exact Match Only", func(t *testing.T) {
		require.NoError(t, reg.Register(ctx, url, "APP-2"))

		_, err := reg.Lookup(ctx, url+"/")
		assert.ErrorIs(t, err, domain.ErrAppNotRegistered, "lookup must not normalize URLs")
	})
}
