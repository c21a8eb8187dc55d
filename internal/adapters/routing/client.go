// Package routing talks to the external route-computation service.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/searoute/internal/core/domain"
	"github.com/samirrijal/searoute/internal/pkg/metrics"
	"github.com/samirrijal/searoute/internal/pkg/telemetry"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

type routeResponse struct {
	RoutePoints []domain.Waypoint `json:"route_points"`
}

// Client implements ports.RouteProvider over HTTP. Requests are never
// retried; every failure surfaces as domain.ErrRouteUnavailable.
type Client struct {
	url     string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient creates a client posting to url.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:     url,
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "searoute",
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// ComputeRoute posts req and returns the decoded, validated route.
func (c *Client) ComputeRoute(ctx context.Context, req domain.RouteRequest) (domain.Route, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanComputeRoute)
	defer span.End()
	span.SetAttributes(
		attribute.String("routing.url", c.url),
		attribute.Bool("routing.avoid_hazards", req.AvoidHazards),
	)

	start := time.Now()
	route, err := c.do(ctx, req)
	metrics.RouteRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RouteRequests.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrRouteUnavailable, err)
	}

	metrics.RouteRequests.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("routing.points", len(route)))
	return route, nil
}

func (c *Client) do(ctx context.Context, req domain.RouteRequest) (domain.Route, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	httpReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(httpReq)
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(c.url)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBody(body)

	if err := c.http.DoDeadline(httpReq, httpResp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("request timed out: %w", err)
		}
		return nil, fmt.Errorf("request: %w", err)
	}

	if code := httpResp.StatusCode(); code < 200 || code >= 300 {
		return nil, &httpStatusError{Code: code, Body: strings.TrimSpace(string(httpResp.Body()))}
	}

	var decoded routeResponse
	if err := json.Unmarshal(httpResp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	route := domain.Route(decoded.RoutePoints)
	if err := route.Validate(); err != nil {
		return nil, fmt.Errorf("route_points: %w", err)
	}
	return route, nil
}
