package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/config"
)

// ErrNotAuthenticated is returned when no API token is configured.
var ErrNotAuthenticated = errors.New("not authenticated")

// Client is an authenticated API handle.
type Client struct {
	baseURL string
	token   string
}

// NewClient returns a handle for baseURL using token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// BaseURL returns the API endpoint without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// AccessToken returns the bearer token for API requests.
func (c *Client) AccessToken() string { return c.token }

// Provider produces a Client on demand.
type Provider func(ctx context.Context) (*Client, error)

// Lazy wraps p so it runs at most once; later calls return the first result.
func Lazy(p Provider) Provider {
	var (
		once   sync.Once
		client *Client
		err    error
	)
	return func(ctx context.Context) (*Client, error) {
		once.Do(func() {
			client, err = p(ctx)
		})
		return client, err
	}
}

// FromConfig returns a Provider that builds a Client from the api.base_url
// and api.token settings.
func FromConfig() Provider {
	return func(ctx context.Context) (*Client, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		token := config.APIToken()
		if token == "" {
			return nil, fmt.Errorf("%w: set %s or run `%s config set %s <token>`",
				ErrNotAuthenticated, branding.EnvVar("API_TOKEN"), branding.CLIName(), config.KeyAPIToken)
		}
		return NewClient(config.APIBaseURL(), token), nil
	}
}
