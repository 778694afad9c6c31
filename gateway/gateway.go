package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-condo-console/credentials"
	"github.com/jrsteele09/go-condo-console/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 30 * time.Second
	contentTypeJSON = "application/json; charset=utf-8"
	headerRequestID = "X-Request-ID"
)

// Session is the session manager surface the gateway consumes. The
// gateway never mutates session state itself; it asks the manager to
// act and reacts to the outcome.
type Session interface {
	CurrentCredential() (credentials.Credential, bool)
	CurrentState() session.State
	Renew(ctx context.Context) (credentials.Credential, error)
}

// Gateway is the single chokepoint for authenticated backend calls. It
// attaches the current bearer credential, detects 401s, renews the
// credential once through the session manager, and resends the original
// request exactly once. 403 is a permission problem, not a credential
// problem, and never triggers a renewal.
type Gateway struct {
	baseURL    string
	sess       Session
	httpClient *http.Client
	log        zerolog.Logger
}

// Option modifies a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = hc
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) {
		g.log = log
	}
}

// New creates a gateway for the backend at baseURL, drawing credentials
// from sess.
func New(baseURL string, sess Session, options ...Option) (*Gateway, error) {
	if baseURL == "" {
		return nil, errors.New("[gateway.New] baseURL is required")
	}
	if sess == nil {
		return nil, errors.New("[gateway.New] session is required")
	}

	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sess:       sess,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Do sends one JSON request and decodes a 2xx response into out (out may
// be nil). body, when non-nil, is marshalled to JSON; keeping requests
// at this level means a retry after renewal simply re-marshals, there is
// no stream to rewind.
//
// Non-2xx responses other than the handled 401 come back as a
// *StatusError carrying the raw body, so screens can render validation
// details themselves. A renewal failure comes back wrapped around
// session.ErrSessionDead; by then the manager has already torn the
// session down and every other screen will observe it.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	requestID := uuid.New().String()
	retried := false

	for {
		status, respBody, err := g.send(ctx, method, path, body, requestID)
		if err != nil {
			return errors.Wrapf(err, "[Gateway.Do] %s %s", method, path)
		}

		if status == http.StatusUnauthorized && !retried {
			g.log.Debug().Str("request_id", requestID).Str("path", path).Msg("credential rejected; renewing")
			if _, rerr := g.sess.Renew(ctx); rerr != nil {
				return errors.Wrapf(rerr, "[Gateway.Do] renewal failed for %s %s", method, path)
			}
			if g.sess.CurrentState() != session.StateAuthenticated {
				// Renewal resolved but the session moved on (logout
				// raced it). Never resend against a torn-down session.
				return errors.Wrapf(session.ErrSessionDead, "[Gateway.Do] %s %s", method, path)
			}
			retried = true
			continue
		}

		if status >= 200 && status < 300 {
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return errors.Wrapf(err, "[Gateway.Do] decode %s %s response", method, path)
			}
			return nil
		}

		return &StatusError{StatusCode: status, Body: respBody, RequestID: requestID}
	}
}

// Get is shorthand for Do with GET and no request body.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is shorthand for Do with POST.
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) send(ctx context.Context, method, path string, body any, requestID string) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, errors.Wrap(err, "marshal request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, errors.Wrap(err, "new request")
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set(headerRequestID, requestID)
	if cred, ok := g.sess.CurrentCredential(); ok {
		req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response body")
	}
	return resp.StatusCode, data, nil
}
