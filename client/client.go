package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/saudapakka/saudapakka-mandate"
	"github.com/saudapakka/saudapakka-mandate/viewfilter"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 4 << 20
)

// TokenSource supplies the bearer token for each request. An empty token sends none.
type TokenSource interface {
	Token() string
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	cache   *cache.Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithToken authenticates every request with a fixed token.
func WithToken(token string) Option {
	return WithTokenSource(staticToken(token))
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		tokens:  staticToken(""),
		// no janitor goroutine: expired entries are dropped on Get
		cache:   cache.New(10*time.Minute, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload is a signature image attached to a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

func (u *Upload) empty() bool {
	return u == nil || len(u.Data) == 0
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, raw)
	}
	return raw, nil
}

func (c *Client) requestWithToken(ctx context.Context, token, method, path string, payload, response any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "encode payload")
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if response == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, response); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, payload, response any) error {
	return c.requestWithToken(ctx, c.tokens.Token(), method, path, payload, response)
}

func (c *Client) multipart(ctx context.Context, path string, fields map[string]string, fileField string, file *Upload, response any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return errors.Wrap(err, "write field")
		}
	}
	if file != nil {
		name := file.Filename
		if name == "" {
			name = "signature.png"
		}
		part, err := w.CreateFormFile(fileField, name)
		if err != nil {
			return errors.Wrap(err, "create form file")
		}
		if _, err := part.Write(file.Data); err != nil {
			return errors.Wrap(err, "write form file")
		}
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "close multipart writer")
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, c.tokens.Token(), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	if err := json.Unmarshal(raw, response); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (saudapakka.LoginResponse, error) {
	var resp saudapakka.LoginResponse
	err := c.requestWithToken(ctx, "", http.MethodPost, "/api/auth/login/", saudapakka.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	return resp, err
}

func (c *Client) Me(ctx context.Context) (saudapakka.User, error) {
	return c.MeWithToken(ctx, c.tokens.Token())
}

// MeWithToken resolves the user behind token, independent of the configured token source.
func (c *Client) MeWithToken(ctx context.Context, token string) (saudapakka.User, error) {
	var user saudapakka.User
	err := c.requestWithToken(ctx, token, http.MethodGet, "/api/auth/me/", nil, &user)
	return user, err
}

// ListMandates fetches the viewer's mandates. An empty view lists everything visible.
func (c *Client) ListMandates(ctx context.Context, view string) ([]saudapakka.Mandate, error) {
	path := "/api/mandates/"
	if view != "" {
		path += "?view=" + url.QueryEscape(view)
	}
	var mandates []saudapakka.Mandate
	if err := c.request(ctx, http.MethodGet, path, nil, &mandates); err != nil {
		return nil, err
	}
	return mandates, nil
}

func (c *Client) GetMandate(ctx context.Context, id string) (saudapakka.Mandate, error) {
	var m saudapakka.Mandate
	err := c.request(ctx, http.MethodGet, saudapakka.MandatePath(id), nil, &m)
	return m, err
}

// LoadMandates is ListMandates for display: failures are logged and yield an empty list.
func (c *Client) LoadMandates(ctx context.Context, view string) []saudapakka.Mandate {
	mandates, err := c.ListMandates(ctx, view)
	if err != nil {
		slog.WarnContext(ctx, "failed to load mandates",
			slog.String("module", "client"),
			slog.String("error", err.Error()),
		)
		return []saudapakka.Mandate{}
	}
	return mandates
}

// LoadMandate reports false when the mandate could not be fetched for any reason.
func (c *Client) LoadMandate(ctx context.Context, id string) (saudapakka.Mandate, bool) {
	m, err := c.GetMandate(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "failed to load mandate",
			slog.String("module", "client"),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return saudapakka.Mandate{}, false
	}
	return m, true
}

func (c *Client) CreateMandate(ctx context.Context, req saudapakka.CreateMandateRequest, signature *Upload) (saudapakka.Mandate, error) {
	fields := map[string]string{
		"property_item": req.PropertyItem,
		"initiated_by":  string(req.InitiatedBy),
		"deal_type":     string(req.DealType),
	}
	if req.Broker != "" {
		fields["broker"] = req.Broker
	}
	if req.IsExclusive {
		fields["is_exclusive"] = "true"
	} else {
		fields["is_exclusive"] = "false"
	}
	if req.CommissionRate != 0 {
		fields["commission_rate"] = jsonNumber(req.CommissionRate)
	}

	var created saudapakka.Mandate
	if err := c.multipart(ctx, "/api/mandates/", fields, req.SignatureField(), signature, &created); err != nil {
		c.logMutation(ctx, "create", "", err)
		return saudapakka.Mandate{}, err
	}
	return c.refetch(ctx, created.ID)
}

// AcceptAndSign accepts a pending mandate and returns its fresh server state.
// Nothing is sent without a signature.
func (c *Client) AcceptAndSign(ctx context.Context, id string, signature *Upload) (saudapakka.Mandate, error) {
	if signature.empty() {
		return saudapakka.Mandate{}, invalid("signature", "Digital signature file is required to accept.")
	}
	if err := c.multipart(ctx, saudapakka.MandatePath(id)+"accept_and_sign/", nil, "signature", signature, nil); err != nil {
		c.logMutation(ctx, "accept_and_sign", id, err)
		return saudapakka.Mandate{}, err
	}
	return c.refetch(ctx, id)
}

// Reject refuses a pending mandate. A blank reason is refused locally.
func (c *Client) Reject(ctx context.Context, id, reason string) (saudapakka.Mandate, error) {
	if !viewfilter.CanSubmitReject(reason) {
		return saudapakka.Mandate{}, invalid("reason", "A reason is required to reject a mandate.")
	}
	err := c.request(ctx, http.MethodPost, saudapakka.MandatePath(id)+"reject/", saudapakka.RejectMandateRequest{Reason: reason}, nil)
	if err != nil {
		c.logMutation(ctx, "reject", id, err)
		return saudapakka.Mandate{}, err
	}
	return c.refetch(ctx, id)
}

func (c *Client) Cancel(ctx context.Context, id string) (saudapakka.Mandate, error) {
	if err := c.request(ctx, http.MethodPost, saudapakka.MandatePath(id)+"cancel_mandate/", nil, nil); err != nil {
		c.logMutation(ctx, "cancel_mandate", id, err)
		return saudapakka.Mandate{}, err
	}
	return c.refetch(ctx, id)
}

// Renew creates the successor of an expired mandate and returns it. A nil signature
// reuses the renewer's signature from the expired mandate.
func (c *Client) Renew(ctx context.Context, id string, signature *Upload) (saudapakka.Mandate, error) {
	var renewed saudapakka.Mandate
	if err := c.multipart(ctx, saudapakka.MandatePath(id)+"renew_mandate/", nil, "signature", signature, &renewed); err != nil {
		c.logMutation(ctx, "renew_mandate", id, err)
		return saudapakka.Mandate{}, err
	}
	return c.refetch(ctx, renewed.ID)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.request(ctx, http.MethodDelete, saudapakka.MandatePath(id), nil, nil); err != nil {
		c.logMutation(ctx, "delete", id, err)
		return err
	}
	return nil
}

func (c *Client) SearchBroker(ctx context.Context, mobile string) (saudapakka.BrokerProfile, error) {
	key := "broker:" + mobile
	if x, found := c.cache.Get(key); found {
		return x.(saudapakka.BrokerProfile), nil
	}

	var broker saudapakka.BrokerProfile
	err := c.request(ctx, http.MethodGet, "/api/mandates/search_broker/?mobile_number="+url.QueryEscape(mobile), nil, &broker)
	if err != nil {
		return saudapakka.BrokerProfile{}, err
	}
	c.cache.Set(key, broker, cache.DefaultExpiration)
	return broker, nil
}

// Letter fetches the rendered agreement text.
func (c *Client) Letter(ctx context.Context, id string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, saudapakka.MandatePath(id)+"letter/", c.tokens.Token(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	raw, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) Property(ctx context.Context, id string) (saudapakka.Property, error) {
	var p saudapakka.Property
	err := c.request(ctx, http.MethodGet, "/api/properties/"+url.PathEscape(id)+"/", nil, &p)
	return p, err
}

func (c *Client) MyListings(ctx context.Context) ([]saudapakka.Property, error) {
	var properties []saudapakka.Property
	if err := c.request(ctx, http.MethodGet, "/api/properties/my_listings/", nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) Notifications(ctx context.Context) ([]saudapakka.Notification, error) {
	var notifications []saudapakka.Notification
	if err := c.request(ctx, http.MethodGet, "/api/notifications/", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	return c.request(ctx, http.MethodPost, "/api/notifications/"+url.PathEscape(id)+"/mark_as_read/", nil, nil)
}

func (c *Client) MarkAllAsRead(ctx context.Context) (int64, error) {
	var resp struct {
		Count int64 `json:"count"`
	}
	if err := c.request(ctx, http.MethodPost, "/api/notifications/mark_all_as_read/", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) refetch(ctx context.Context, id string) (saudapakka.Mandate, error) {
	m, err := c.GetMandate(ctx, id)
	if err != nil {
		return saudapakka.Mandate{}, errors.Wrap(err, "refetch mandate")
	}
	return m, nil
}

func (c *Client) logMutation(ctx context.Context, action, id string, err error) {
	slog.ErrorContext(ctx, "mandate action failed",
		slog.String("module", "client"),
		slog.String("action", action),
		slog.String("id", id),
		slog.String("error", err.Error()),
	)
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
