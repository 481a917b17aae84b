// Package gateway implements the client side of the remote WikiNITT GraphQL
// API. All persistence, authorization and consistency decisions live behind
// that API; this package only shapes requests, attaches the viewer's bearer
// credential and maps failures into the application error taxonomy.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"

	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/observability"
)

const requestTimeout = 15 * time.Second

// Client talks to the GraphQL endpoint. The zero value is not usable; use New.
type Client struct {
	endpoint string
	gql      *graphql.Client
	upload   *graphql.Client
}

// New creates a gateway client for the given GraphQL endpoint URL.
// A second underlying client in multipart mode handles file uploads.
func New(endpoint string) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	return &Client{
		endpoint: endpoint,
		gql:      graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		upload:   graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient), graphql.UseMultipartForm()),
	}
}

// run executes a single GraphQL operation. An empty token issues the request
// unauthenticated; otherwise the bearer credential is attached.
func (c *Client) run(ctx context.Context, op, token string, req *graphql.Request, out interface{}) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	done := observability.TrackGatewayOp(op)
	err := c.gql.Run(ctx, req, out)
	done()

	return classify(op, err)
}

// runUpload executes a mutation carrying file parts.
func (c *Client) runUpload(ctx context.Context, op, token string, req *graphql.Request, out interface{}) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	done := observability.TrackGatewayOp(op)
	err := c.upload.Run(ctx, req, out)
	done()

	return classify(op, err)
}

// classify maps a raw client error onto the application taxonomy. Errors
// reported by the GraphQL layer carry a server-authored message and are
// surfaced inline; anything else is a transport failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		observability.GatewayErrors.WithLabelValues(op, "transport").Inc()
		return models.NewGatewayError(err)
	}

	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "graphql: "); ok {
		observability.GatewayErrors.WithLabelValues(op, "upstream").Inc()
		lower := strings.ToLower(rest)
		if strings.Contains(lower, "unauthorized") ||
			strings.Contains(lower, "forbidden") ||
			strings.Contains(lower, "access denied") ||
			strings.Contains(lower, "not allowed") {
			return models.NewUnauthorizedError(rest)
		}
		return models.NewValidationError(rest)
	}

	observability.GatewayErrors.WithLabelValues(op, "transport").Inc()
	return models.NewGatewayError(err)
}

// Ping issues a minimal query to verify the upstream endpoint answers.
// Readiness probes use it.
func (c *Client) Ping(ctx context.Context) error {
	req := graphql.NewRequest(`{ __typename }`)
	var out struct {
		Typename string `json:"__typename"`
	}
	return c.run(ctx, "ping", "", req, &out)
}
