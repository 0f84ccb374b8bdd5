package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/asokol123/yggdrasil-dns/application"
	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/asokol123/yggdrasil-dns/protocol/pow"
	"github.com/go-resty/resty/v2"
)

// ErrUnminedEnvelope indicates an envelope whose body does not satisfy
// the dispatcher's difficulty. The registry would reject it.
var ErrUnminedEnvelope = errors.New("[dns] Envelope does not satisfy the proof-of-work")

// A Dispatcher sends envelopes to a registry over HTTP, one blocking
// request each, without retries.
type Dispatcher struct {
	client     *resty.Client
	endpoint   string
	difficulty int
	logger     *application.Logger
}

// A DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPreflightDifficulty makes Dispatch refuse envelopes whose body
// does not satisfy difficulty z. Negative z disables the check.
func WithPreflightDifficulty(z int) DispatcherOption {
	return func(d *Dispatcher) {
		d.difficulty = z
	}
}

// WithLogger routes request and transport logs to logger.
func WithLogger(logger *application.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher returns a Dispatcher for the registry at endpoint, which
// is either a URL or a bare host:port reached over plain HTTP. Every
// request fails with a *protocol.NetworkError if it takes longer than
// timeout.
func NewDispatcher(endpoint string, timeout time.Duration, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		endpoint:   NormalizeEndpoint(endpoint),
		difficulty: -1,
		logger:     application.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.client = resty.New().
		SetTimeout(timeout).
		SetLogger(restyLogger{d.logger}).
		SetHeader("Accept", "application/json")
	return d
}

// NormalizeEndpoint prefixes a bare host:port with "http://" and drops
// any trailing slash.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	return strings.TrimRight(endpoint, "/")
}

// URL returns the address cmd is sent to.
func (d *Dispatcher) URL(cmd protocol.Command) string {
	return d.endpoint + "/" + string(cmd)
}

// Dispatch sends env and returns the registry's answer. POST requests
// carry env.Body verbatim, the exact bytes the proof-of-work was mined
// over; GET requests carry env.Params as query parameters.
//
// A non-success status is not an error here: it is reported in the
// returned Response, whose Err method converts it. Transport failures
// are returned as *protocol.NetworkError and are not retried.
func (d *Dispatcher) Dispatch(ctx context.Context, env *protocol.Envelope) (*protocol.Response, error) {
	if d.difficulty >= 0 && !pow.Verify(env.Body, d.difficulty) {
		return nil, &protocol.BuildError{
			Command: env.Command,
			Field:   protocol.FieldNonce,
			Err:     ErrUnminedEnvelope,
		}
	}

	method := env.Command.Method()
	url := d.URL(env.Command)
	req := d.client.R().SetContext(ctx)
	switch method {
	case http.MethodGet:
		query := make(map[string]string, len(env.Params))
		for _, k := range env.Params.Keys() {
			v, err := protocol.FormatValue(k, env.Params[k])
			if err != nil {
				return nil, err
			}
			query[k] = v
		}
		req.SetQueryParams(query)
	default:
		req.SetHeader("Content-Type", "application/json").
			SetBody(env.Body)
	}

	d.logger.Debug("Dispatching request", "method", method, "url", url)
	resp, err := req.Execute(method, url)
	if err != nil {
		d.logger.Error("Request failed", "method", method, "url", url, "error", err)
		return nil, &protocol.NetworkError{Method: method, URL: url, Err: err}
	}
	d.logger.Debug("Received response", "status", resp.StatusCode(),
		"elapsed", resp.Time())

	return application.UnmarshalResponse(env.Command, resp.StatusCode(),
		resp.Status(), resp.Body()), nil
}

// restyLogger adapts an application.Logger to resty's logger.
type restyLogger struct {
	l *application.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.l.Error(fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.l.Warn(fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.l.Debug(fmt.Sprintf(format, v...))
}
