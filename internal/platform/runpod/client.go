package runpod

import (
	"context"
	"net/http"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/imamik/podtrain/internal/config"
)

// Client implements the offer catalog and the control plane.
type Client struct {
	gql        *graphql.Client
	httpClient *http.Client
	timeouts   *config.Timeouts
	log        logrus.FieldLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithHTTPClient sets the base HTTP client the bearer transport wraps.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for retry and debug output.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the GraphQL endpoint at apiURL.
func NewClient(apiURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		timeouts:   config.LoadTimeouts(),
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	c.gql = graphql.NewClient(apiURL, oauth2.NewClient(ctx, src))

	return c
}

// callContext bounds a single API call.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeouts.APIRequest)
}
