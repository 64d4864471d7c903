// Package client talks to the music hub registration API.
//
// Both operations return an Envelope instead of failing: non-success statuses,
// undecodable bodies and transport errors all come back as values, so callers
// branch on the envelope alone.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/tracing"
)

const (
	DefaultRegisterPath = "/api/v1/producers"
	DefaultRecentPath   = "/api/v1/tracks/recent"
	DefaultTimeout      = 10 * time.Second

	// CorrelationHeader carries a per-request id the backend echoes into its logs.
	CorrelationHeader = "X-Correlation-ID"

	maxBodyBytes = 1 << 20
)

// ErrBuildRequest is returned by SubmitRegistration when no request could be
// constructed, e.g. because the base URL is malformed.
var ErrBuildRequest = errors.New("build request")

// Client is the HTTP adapter for the registration and recent-tracks endpoints.
type Client struct {
	baseURL       string
	registerPath  string
	recentPath    string
	http          *http.Client
	timeout       time.Duration
	tracer        trace.Tracer
	correlationID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTracer records spans for every call and wraps the transport so the
// trace context reaches the backend.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithRegisterPath overrides DefaultRegisterPath.
func WithRegisterPath(p string) Option {
	return func(c *Client) { c.registerPath = p }
}

// WithRecentPath overrides DefaultRecentPath.
func WithRecentPath(p string) Option {
	return func(c *Client) { c.recentPath = p }
}

// WithCorrelationIDs overrides the per-request id generator.
func WithCorrelationIDs(gen func() string) Option {
	return func(c *Client) { c.correlationID = gen }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		registerPath:  DefaultRegisterPath,
		recentPath:    DefaultRecentPath,
		http:          &http.Client{Timeout: DefaultTimeout},
		correlationID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Work on a copy so options never mutate a caller-supplied http.Client.
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	if c.tracer == nil {
		c.tracer = noop.NewTracerProvider().Tracer("noop")
	} else {
		hc.Transport = tracing.NewTransport(hc.Transport, c.tracer)
	}
	c.http = &hc
	return c
}

// SubmitRegistration posts code for registration. A 202 is the only success
// status. The returned error is non-nil only when the request could not be
// built; every other outcome is carried by the Registration envelope.
func (c *Client) SubmitRegistration(ctx context.Context, code string) (Registration, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanSubmitRegistration,
		trace.WithAttributes(attribute.String(tracing.AttrISRC, code)))
	defer span.End()

	payload, err := json.Marshal(registerRequest{ISRC: code})
	if err != nil {
		span.RecordError(err)
		return Registration{}, fmt.Errorf("%w: encode payload: %w", ErrBuildRequest, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.registerPath, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Registration{}, fmt.Errorf("%w: %w", ErrBuildRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	span.SetAttributes(attribute.String(tracing.AttrCorrelationID, req.Header.Get(CorrelationHeader)))

	log.Debug(log.CatHTTP, "submitting registration", "isrc", code, "url", req.URL.String())

	status, body, err := c.do(req)
	if err != nil {
		env := networkFailure[Producer](err)
		recordEnvelope(span, env.Status, env.Error)
		log.ErrorErr(log.CatHTTP, "registration request failed", err, "isrc", code)
		return Registration{Envelope: env}, nil
	}

	if status != http.StatusAccepted {
		env := failure[Producer](status, body)
		recordEnvelope(span, status, env.Error)
		log.Warn(log.CatHTTP, "registration rejected", "isrc", code, "status", status, "error", env.Error)
		return Registration{Envelope: env}, nil
	}

	result := Registration{Envelope: Envelope[Producer]{OK: true, Status: status}}
	if len(bytes.TrimSpace(body)) > 0 {
		var producer Producer
		if err := json.Unmarshal(body, &producer); err != nil {
			log.Warn(log.CatHTTP, "accepted registration with undecodable body", "isrc", code, "error", err)
		} else {
			result.Data = &producer
			result.TrackInfo = producer.trackInfo()
		}
	}
	recordEnvelope(span, status, "")
	log.Info(log.CatHTTP, "registration accepted", "isrc", code, "trackInfo", result.TrackInfo != nil)
	return result, nil
}

// FetchRecent reads the recently submitted tracks in server order.
// Transport failures come back as {Status: 0, Error: "NetworkError"}.
func (c *Client) FetchRecent(ctx context.Context) Envelope[[]RecentTrack] {
	ctx, span := c.tracer.Start(ctx, tracing.SpanFetchRecent)
	defer span.End()

	req, err := c.newRequest(ctx, http.MethodGet, c.recentPath, nil)
	if err != nil {
		env := networkFailure[[]RecentTrack](err)
		recordEnvelope(span, env.Status, env.Error)
		log.ErrorErr(log.CatHTTP, "building recent-tracks request failed", err)
		return env
	}
	req.Header.Set("Accept", "application/json")
	span.SetAttributes(attribute.String(tracing.AttrCorrelationID, req.Header.Get(CorrelationHeader)))

	status, body, err := c.do(req)
	if err != nil {
		env := networkFailure[[]RecentTrack](err)
		recordEnvelope(span, env.Status, env.Error)
		log.ErrorErr(log.CatHTTP, "recent-tracks request failed", err)
		return env
	}

	if status < 200 || status > 299 {
		env := failure[[]RecentTrack](status, body)
		recordEnvelope(span, status, env.Error)
		log.Warn(log.CatHTTP, "recent-tracks request rejected", "status", status, "error", env.Error)
		return env
	}

	tracks := []RecentTrack{}
	if len(bytes.TrimSpace(body)) > 0 {
		var decoded []RecentTrack
		if err := json.Unmarshal(body, &decoded); err != nil {
			recordEnvelope(span, status, ErrorDecode)
			log.Warn(log.CatHTTP, "recent-tracks body undecodable", "status", status, "error", err)
			return Envelope[[]RecentTrack]{Status: status, Error: ErrorDecode}
		}
		if decoded != nil {
			tracks = decoded
		}
	}

	recordEnvelope(span, status, "")
	log.Debug(log.CatHTTP, "recent tracks fetched", "count", len(tracks))
	return Envelope[[]RecentTrack]{OK: true, Status: status, Data: &tracks}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if req.URL.Scheme == "" || req.URL.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", c.baseURL)
	}
	req.Header.Set(CorrelationHeader, c.correlationID())
	return req, nil
}

// do sends req and reads at most maxBodyBytes of the response. A body read
// failure after the status arrived is not a transport failure; the status is
// kept and the body dropped.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warn(log.CatHTTP, "reading response body failed", "status", resp.StatusCode, "error", err)
		return resp.StatusCode, nil, nil
	}
	return resp.StatusCode, body, nil
}

func networkFailure[T any](err error) Envelope[T] {
	return Envelope[T]{Status: 0, Error: ErrorNetwork, Message: err.Error()}
}

// failure decodes a structured error body when one is present.
func failure[T any](status int, body []byte) Envelope[T] {
	env := Envelope[T]{Status: status}
	var eb errorBody
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &eb) == nil {
		env.Error = eb.Error
		env.Message = eb.Message
	}
	return env
}

func recordEnvelope(span trace.Span, status int, errCode string) {
	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatusCode, status))
	if errCode != "" {
		span.SetAttributes(attribute.String(tracing.AttrEnvelopeError, errCode))
		span.SetStatus(codes.Error, errCode)
		return
	}
	if status == 0 || status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(status))
		return
	}
	span.SetStatus(codes.Ok, "")
}
