// Package scrappey is a client for the scrappey.com scraping API. Options are
// validated and normalized locally, then sent with exactly one HTTP exchange.
package scrappey

import (
	"context"
	"fmt"
	"time"

	internaltel "scrappey-go/internal/telemetry"
	"scrappey-go/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	DefaultBaseUrl = "https://publisher.scrappey.com/api/v1"
	DefaultTimeout = 5 * time.Minute
)

type ClientOptions struct {
	ApiKey string
	// defaults to DefaultBaseUrl
	BaseUrl string
	// DisableVerboseErrors suppresses notices about deprecated or
	// conflicting options.
	DisableVerboseErrors bool
	// defaults to DefaultTimeout
	Timeout time.Duration
	// notices are reported as warnings here, defaults to slog
	Telemetry internaltel.API
}

// Client is safe for concurrent use, it holds no state besides its
// configuration.
type Client struct {
	apiKey               string
	baseUrl              string
	disableVerboseErrors bool
	tel                  internaltel.API
	http                 *resty.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.ApiKey == "" {
		return nil, ErrMissingApiKey
	}
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Telemetry == nil {
		opts.Telemetry = internaltel.SlogAPI{}
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetHeader("Content-Type", jsonContentType)
	restyutil.InstrumentClient(client, tracer, restyutil.SlogOutput{})

	return &Client{
		apiKey:               opts.ApiKey,
		baseUrl:              opts.BaseUrl,
		disableVerboseErrors: opts.DisableVerboseErrors,
		tel:                  internaltel.NewScopedAPI("scrappey", opts.Telemetry),
		http:                 client,
	}, nil
}

// Dispatch validates opts for endpoint and sends them to scrappey.com. It is
// the building block of the other methods, prefer those since PostRequest
// normalizes postData before it is validated.
func (c *Client) Dispatch(ctx context.Context, endpoint Endpoint, opts Options) (Response, error) {
	ctx, span := tracer.Start(ctx, "Dispatch")
	defer span.End()
	endpointAttr := attribute.String("endpoint", string(endpoint))
	span.SetAttributes(endpointAttr)

	opts, notices := Normalize(opts)
	validationNotices, err := Validate(endpoint, opts)
	c.report(append(notices, validationNotices...))
	if err != nil {
		rejectedCounter.Add(ctx, 1, metric.WithAttributes(endpointAttr))
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	dispatchCounter.Add(ctx, 1, metric.WithAttributes(endpointAttr))
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(opts.wireBody(endpoint)).
		Post(c.baseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make request")
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if res.IsError() {
		err := &RemoteError{
			Endpoint:   endpoint,
			StatusCode: res.StatusCode(),
			Body:       res.Body(),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote responded with an error status")
		return nil, err
	}

	return Response(res.Body()), nil
}

func (c *Client) report(notices []Notice) {
	if c.disableVerboseErrors {
		return
	}
	for _, n := range notices {
		c.tel.ReportWarning(n.Code, n.Message)
	}
}

// CreateSession creates a browser session on scrappey.com, the id of the
// session is in Response.Session().
func (c *Client) CreateSession(ctx context.Context, opts CreateSessionOptions) (Response, error) {
	return c.Dispatch(ctx, SessionsCreate, opts.Options())
}

func (c *Client) CreateSessionRaw(ctx context.Context, opts Options) (Response, error) {
	return c.Dispatch(ctx, SessionsCreate, opts)
}

// DestroySession destroys a session, sessions that are not destroyed expire
// on their own.
func (c *Client) DestroySession(ctx context.Context, session string) (Response, error) {
	if session == "" {
		return nil, invalid(ErrMissingSession, FieldSession, "session parameter is required.")
	}
	return c.Dispatch(ctx, SessionsDestroy, Options{FieldSession: session})
}

func (c *Client) GetRequest(ctx context.Context, opts RequestOptions) (Response, error) {
	return c.Dispatch(ctx, RequestGet, opts.Options())
}

func (c *Client) GetRequestRaw(ctx context.Context, opts Options) (Response, error) {
	return c.Dispatch(ctx, RequestGet, opts)
}

func (c *Client) PostRequest(ctx context.Context, opts PostRequestOptions) (Response, error) {
	return c.PostRequestRaw(ctx, opts.Options())
}

// PostRequestRaw serializes structured postData to JSON and adds a
// content-type field to JSON payloads that lack one before dispatching.
func (c *Client) PostRequestRaw(ctx context.Context, opts Options) (Response, error) {
	if opts.has(FieldPostData) && opts[FieldPostData] == nil {
		return nil, errNullPostData()
	}
	payload, err := NormalizePayload(opts[FieldPostData])
	if err != nil {
		return nil, err
	}
	opts = opts.clone()
	opts[FieldPostData] = payload
	return c.Dispatch(ctx, RequestPost, opts)
}
