// Package delay adds a fixed latency to outgoing HTTP requests and AWS SDK
// API calls, for experiments against third-party dependencies.
package delay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/smithy-go/middleware"
	"go.uber.org/zap"

	"github.com/hatsunemiku3939/chaoslambda/internal/logger"
)

// MiddlewareID identifies the SDK middleware added by APIOptions.
const MiddlewareID = "ChaosDelay"

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type options struct {
	logger *zap.Logger
	sleep  SleepFunc
}

// Option configures the delay helpers.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSleep replaces the sleep, mainly for tests.
func WithSleep(s SleepFunc) Option {
	return func(o *options) { o.sleep = s }
}

func newOptions(opts []Option) options {
	o := options{sleep: sleepCtx}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("delay")
	}
	if o.sleep == nil {
		o.sleep = sleepCtx
	}
	return o
}

func (o options) wait(ctx context.Context, d time.Duration, target string) error {
	o.logger.Info(fmt.Sprintf("Added %.2fms of delay to %s", float64(d)/float64(time.Millisecond), target))
	return o.sleep(ctx, d)
}

// Doer is the part of *http.Client that Client wraps.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client delays every request by a fixed amount and then delegates it.
type Client struct {
	doer  Doer
	delay time.Duration
	opts  options
}

// NewClient wraps doer. A nil doer uses http.DefaultClient.
func NewClient(doer Doer, d time.Duration, opts ...Option) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{doer: doer, delay: d, opts: newOptions(opts)}
}

// Do sleeps for the configured delay, honoring the request context, then sends req.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.opts.wait(req.Context(), c.delay, req.Method); err != nil {
		return nil, err
	}
	return c.doer.Do(req)
}

// Get issues a delayed GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Transport is an http.RoundTripper delaying every request. It lets an
// existing *http.Client, including the one inside an AWS SDK client, carry the delay.
type Transport struct {
	base  http.RoundTripper
	delay time.Duration
	opts  options
}

// NewTransport wraps base. A nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper, d time.Duration, opts ...Option) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, delay: d, opts: newOptions(opts)}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.opts.wait(req.Context(), t.delay, req.Method); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// APIOptions returns an AWS SDK v2 API option that delays every operation by d
// before it is serialized. Use it in a client's Options.APIOptions or with
// config.WithAPIOptions.
func APIOptions(d time.Duration, opts ...Option) func(*middleware.Stack) error {
	o := newOptions(opts)
	return func(stack *middleware.Stack) error {
		return stack.Initialize.Add(middleware.InitializeMiddlewareFunc(MiddlewareID,
			func(ctx context.Context, in middleware.InitializeInput, next middleware.InitializeHandler) (
				middleware.InitializeOutput, middleware.Metadata, error,
			) {
				op := awsmiddleware.GetOperationName(ctx)
				if op == "" {
					op = "operation"
				}
				if err := o.wait(ctx, d, op); err != nil {
					return middleware.InitializeOutput{}, middleware.Metadata{}, err
				}
				return next.HandleInitialize(ctx, in)
			}), middleware.Before)
	}
}
