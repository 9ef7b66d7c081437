package api

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_TrimsSlash(t *testing.T) {
	c := NewClient("https://api.example.test/", "tok")
	assert.Equal(t, "https://api.example.test", c.BaseURL())
	assert.Equal(t, "tok", c.AccessToken())
}

func TestLazy_ResolvesOnce(t *testing.T) {
	calls := 0
	p := Lazy(func(ctx context.Context) (*Client, error) {
		calls++
		return NewClient("https://x", "t"), nil
	})
	require.Zero(t, calls, "provider must not run before it is called")

	first, err := p(context.Background())
	require.NoError(t, err)
	second, err := p(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
}

func TestLazy_MemoizesError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	p := Lazy(func(ctx context.Context) (*Client, error) {
		calls++
		return nil, boom
	})

	for i := 0; i < 2; i++ {
		_, err := p(context.Background())
		assert.ErrorIs(t, err, boom, "call %d", i)
	}
	assert.Equal(t, 1, calls)
}

func TestFromConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"no token", "", ErrNotAuthenticated},
		{"token set", "secret", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			viper.Set("api.base_url", "https://api.example.test")
			viper.Set("api.token", tt.token)

			c, err := FromConfig()(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, c.AccessToken())
			assert.Equal(t, "https://api.example.test", c.BaseURL())
		})
	}
}

func TestFromConfig_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FromConfig()(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
