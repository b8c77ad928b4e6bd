package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/getmentor/supercoach-admin/internal/session"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/getmentor/supercoach-admin/pkg/httpclient"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	"github.com/getmentor/supercoach-admin/pkg/metrics"
	"github.com/getmentor/supercoach-admin/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	HeaderRequestID = "X-Request-ID"

	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// Auth failure reasons reported to the redirect handler and the auth_redirects metric
const (
	ReasonSessionInvalid = "session_invalid"
	ReasonNoRefreshToken = "no_refresh_token"
	ReasonRefreshFailed  = "refresh_failed"
)

// Request describes one platform API call. Path is relative to the API base URL.
// NoAuth skips the session check, the bearer header and the 401 refresh.
// Endpoint labels logs, spans and metrics and defaults to Path.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Header   http.Header
	NoAuth   bool
	Endpoint string
}

func (r Request) endpoint() string {
	if r.Endpoint != "" {
		return r.Endpoint
	}
	return r.Path
}

// Response is a completed platform API response with its body fully read
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// AuthRequiredFunc is called after the session was cleared because no usable credentials remain.
// It is the redirect-to-login side effect.
type AuthRequiredFunc func(reason string)

// Gateway sends authenticated requests to the platform API and hides token refresh from callers
type Gateway struct {
	baseURL        string
	client         httpclient.Client
	store          *session.Store
	onAuthRequired AuthRequiredFunc
	expiryFromJWT  func(string) (time.Time, error)
	refreshGroup   singleflight.Group
}

// Option configures a Gateway
type Option func(*Gateway)

// WithAuthRequiredHandler sets the redirect side effect
func WithAuthRequiredHandler(fn AuthRequiredFunc) Option {
	return func(g *Gateway) {
		g.onAuthRequired = fn
	}
}

// WithTokenExpiry overrides how the expiry is read from an access token
// when a token response carries no expires_in
func WithTokenExpiry(fn func(string) (time.Time, error)) Option {
	return func(g *Gateway) {
		g.expiryFromJWT = fn
	}
}

// New creates a gateway for the API at baseURL
func New(baseURL string, client httpclient.Client, store *session.Store, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: baseURL,
		client:  client,
		store:   store,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.expiryFromJWT == nil {
		g.expiryFromJWT = defaultTokenExpiry
	}
	return g
}

// Store returns the session store backing this gateway
func (g *Gateway) Store() *session.Store {
	return g.store
}

// Call performs req. Non-2xx responses are returned together with a classified *errors.APIError.
// An authenticated call makes at most one refresh and one retry.
func (g *Gateway) Call(ctx context.Context, req Request) (*Response, error) {
	if req.NoAuth {
		resp, err := g.send(ctx, req, "")
		if err != nil {
			return nil, err
		}
		return resp, classify(resp)
	}

	sess, err := g.store.Get(ctx)
	if err != nil {
		logger.Warn("Failed to read session", zap.Error(err))
	}
	if err != nil || !sess.IsValid(g.store.Now()) {
		g.authFailed(ctx, ReasonSessionInvalid)
		return nil, apperrors.AuthRequiredError("Session expired, please log in again")
	}

	resp, err := g.send(ctx, req, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusUnauthorized {
		return resp, classify(resp)
	}

	// Initial -> Retried: exactly one refresh, then one retry whose outcome is final
	token, err := g.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	resp, err = g.send(ctx, req, token)
	if err != nil {
		return nil, err
	}
	return resp, classify(resp)
}

// Do performs req and decodes a 2xx JSON body into T. A 204 or empty body yields the zero value.
func Do[T any](ctx context.Context, g *Gateway, req Request) (T, error) {
	var out T

	resp, err := g.Call(ctx, req)
	if err != nil {
		return out, err
	}
	if resp.Status == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, apperrors.UnknownError(fmt.Sprintf("failed to decode %s response", req.endpoint()), err)
	}
	return out, nil
}

func (g *Gateway) send(ctx context.Context, req Request, accessToken string) (*Response, error) {
	endpoint := req.endpoint()

	ctx, span := tracing.StartSpan(ctx, "gateway."+endpoint,
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
	)
	defer span.End()

	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, apperrors.UnknownError("failed to encode request body", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, apperrors.UnknownError("failed to build request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	// Authorization always comes from the session
	httpReq.Header.Del("Authorization")
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}
	tracing.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	requestID := httpReq.Header.Get(HeaderRequestID)
	span.SetAttributes(attribute.String("request.id", requestID))

	start := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		metrics.APIRequestDuration.WithLabelValues(endpoint, req.Method, "error").Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(endpoint, req.Method, "error").Inc()
		logger.LogAPICall(endpoint, req.Method, "error", duration,
			zap.String("request_id", requestID),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperrors.UnknownError("Network error", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	duration := metrics.MeasureDuration(start)
	status := strconv.Itoa(httpResp.StatusCode)

	metrics.APIRequestDuration.WithLabelValues(endpoint, req.Method, status).Observe(duration)
	metrics.APIRequestTotal.WithLabelValues(endpoint, req.Method, status).Inc()
	logger.LogAPICall(endpoint, req.Method, status, duration, zap.String("request_id", requestID))
	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	if err != nil {
		span.RecordError(err)
		return nil, apperrors.UnknownError("failed to read response body", err)
	}
	if httpResp.StatusCode >= 500 {
		span.SetStatus(codes.Error, status)
	}

	return &Response{
		Status:    httpResp.StatusCode,
		Header:    httpResp.Header,
		Body:      raw,
		RequestID: requestID,
	}, nil
}

// authFailed clears the session and fires the redirect side effect
func (g *Gateway) authFailed(ctx context.Context, reason string) {
	if err := g.store.Clear(ctx); err != nil {
		logger.LogError(err, "Failed to clear session", zap.String("reason", reason))
	}
	metrics.AuthRedirects.WithLabelValues(reason).Inc()
	logger.Info("Authentication required, redirecting to login", zap.String("reason", reason))
	if g.onAuthRequired != nil {
		g.onAuthRequired(reason)
	}
}

func classify(resp *Response) error {
	if resp.Status >= 200 && resp.Status < 300 {
		return nil
	}
	return apperrors.FromStatus(resp.Status, detailOf(resp.Body))
}

// detailOf extracts the "detail" string of an error body. Anything else yields "".
func detailOf(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
