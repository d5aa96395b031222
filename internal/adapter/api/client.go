package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/observability"
	"github.com/go-resty/resty/v2"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// Client calls the HFRAT reporting API. A Client is safe for concurrent use;
// WithToken derives a client that authenticates as a different caller.
type Client struct {
	http    *resty.Client
	sess    *session
	logger  *slog.Logger
	metrics *observability.Metrics
}

// session is the credential a Client sends. When it was created by LoginAs it
// also keeps the username and password so an expired token can be replaced.
type session struct {
	mu       sync.RWMutex
	token    string
	username string
	password string
}

func (s *session) current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *session) credentials() (string, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username, s.password, s.username != ""
}

func (s *session) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// NewClient creates a reporting API client.
func NewClient(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Client {
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    rc,
		sess:    &session{token: opts.Token},
		logger:  logger,
		metrics: metrics,
	}
}

// WithToken returns a client sharing the same connection pool that sends
// token as its bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.sess = &session{token: token}
	return &cp
}

// Token is the credential pair issued by the token endpoint.
type Token struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Identity is the health endpoint's view of the caller.
type Identity struct {
	Status   string  `json:"status"`
	RoleHint *string `json:"role"`
}

// Role resolves the identity's role hint. A missing hint means MONITOR.
func (i Identity) Role() (domain.Role, error) {
	if i.RoleHint == nil {
		return domain.ResolveRole("")
	}
	return domain.ResolveRole(*i.RoleHint)
}

// AccessRole resolves the role hint for an access decision. A missing hint is
// rejected with domain.ErrMissingRole.
func (i Identity) AccessRole() (domain.Role, error) {
	if i.RoleHint == nil {
		return domain.ParseRole("")
	}
	return domain.ParseRole(*i.RoleHint)
}

// SubmittedReport is the stored report echoed back after a submission.
type SubmittedReport struct {
	ICUBeds     int    `json:"icu_beds_available"`
	Ventilators int    `json:"ventilators_available"`
	Staff       int    `json:"staff_on_duty"`
	LastUpdated string `json:"last_updated"`
}

// CreatedUser is the account summary returned by user creation.
type CreatedUser struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Facility *int        `json:"facility"`
}

// Facility is a health facility record.
type Facility struct {
	ID             int     `json:"id,omitempty"`
	FacilityName   string  `json:"facility_name"`
	Country        string  `json:"country,omitempty"`
	CityOrState    string  `json:"city_or_state,omitempty"`
	LocationDetail *string `json:"location_detail,omitempty"`
}

// User is an account as listed by admins.
type User struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Facility *Facility   `json:"facility"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	var tok Token
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, "login", http.MethodPost, "token/", nil, body, &tok); err != nil {
		return Token{}, err
	}
	if tok.Access == "" {
		return Token{}, errors.New("login: response has no access token")
	}
	return tok, nil
}

// LoginAs logs in and makes the client authenticate as username from now on.
// When a later request is rejected with 401 the client logs in again with the
// same credentials and retries that request once.
func (c *Client) LoginAs(ctx context.Context, username, password string) error {
	tok, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}
	c.sess.mu.Lock()
	c.sess.token, c.sess.username, c.sess.password = tok.Access, username, password
	c.sess.mu.Unlock()
	return nil
}

// relogin replaces an expired token using the session's stored credentials.
// stale is the token that was rejected; if another request already replaced
// it, nothing is sent.
func (c *Client) relogin(ctx context.Context, stale string) error {
	username, password, ok := c.sess.credentials()
	if !ok {
		return errors.New("no stored credentials")
	}
	if c.sess.current() != stale {
		return nil
	}
	tok, err := c.Login(ctx, username, password)
	if err != nil {
		return err
	}
	c.sess.set(tok.Access)
	c.logger.Info("re-authenticated with reporting api", "username", username)
	return nil
}

// WhoAmI reports the authenticated caller's role hint.
func (c *Client) WhoAmI(ctx context.Context) (Identity, error) {
	var id Identity
	if err := c.do(ctx, "whoami", http.MethodGet, "health/", nil, nil, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// FetchReports returns the current report for every facility.
func (c *Client) FetchReports(ctx context.Context) ([]domain.ReportRecord, error) {
	var reports []domain.ReportRecord
	if err := c.do(ctx, "fetch_reports", http.MethodGet, "monitor/dashboard/", nil, nil, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.ReportRecord{}
	}
	return reports, nil
}

// FetchTrend returns the report history of one facility.
func (c *Client) FetchTrend(ctx context.Context, id domain.FacilityID) ([]domain.ReportRecord, error) {
	var history []domain.ReportRecord
	params := map[string]string{"id": id.String()}
	if err := c.do(ctx, "fetch_trend", http.MethodGet, "monitor/facilities/{id}/trend/", params, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// SubmitReport creates or replaces the caller's facility report.
func (c *Client) SubmitReport(ctx context.Context, sub domain.ResourceSubmission) (SubmittedReport, error) {
	var out SubmittedReport
	if err := c.do(ctx, "submit_report", http.MethodPost, "reporter/report/", nil, sub, &out); err != nil {
		return SubmittedReport{}, err
	}
	return out, nil
}

// CreateUser validates u locally and creates the account.
func (c *Client) CreateUser(ctx context.Context, u domain.NewUser) (CreatedUser, error) {
	if err := u.Validate(); err != nil {
		return CreatedUser{}, err
	}
	var out CreatedUser
	if err := c.do(ctx, "create_user", http.MethodPost, "admin/users/", nil, u, &out); err != nil {
		return CreatedUser{}, err
	}
	return out, nil
}

// ListUsers returns every account ordered by username.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "list_users", http.MethodGet, "admin/users/list/", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListFacilities returns every facility ordered by name.
func (c *Client) ListFacilities(ctx context.Context) ([]Facility, error) {
	var facilities []Facility
	if err := c.do(ctx, "list_facilities", http.MethodGet, "admin/facilities/", nil, nil, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

// CreateFacility registers a facility.
func (c *Client) CreateFacility(ctx context.Context, f Facility) (Facility, error) {
	if f.FacilityName == "" {
		return Facility{}, errors.New("create facility: facility_name is required")
	}
	var out Facility
	if err := c.do(ctx, "create_facility", http.MethodPost, "admin/facilities/", nil, f, &out); err != nil {
		return Facility{}, err
	}
	return out, nil
}

// do performs a request. A 401 on a session with stored credentials triggers
// one re-login and retry.
func (c *Client) do(ctx context.Context, op, method, path string, pathParams map[string]string, body, result any) error {
	token := c.sess.current()
	err := c.doOnce(ctx, op, method, path, token, pathParams, body, result)
	if op == "login" || !errors.Is(err, ErrUnauthorized) {
		return err
	}
	if _, _, ok := c.sess.credentials(); !ok {
		return err
	}
	if rerr := c.relogin(ctx, token); rerr != nil {
		c.logger.Warn("reporting api re-login failed", "operation", op, "error", rerr)
		return err
	}
	return c.doOnce(ctx, op, method, path, c.sess.current(), pathParams, body, result)
}

// doOnce performs one request, records metrics, and decodes a 2xx body into result.
func (c *Client) doOnce(ctx context.Context, op, method, path, token string, pathParams map[string]string, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	c.metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(op, "error").Inc()
		c.logger.Warn("reporting api request failed", "operation", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if !resp.IsSuccess() {
		c.metrics.APIRequests.WithLabelValues(op, statusOutcome(resp.StatusCode())).Inc()
		apiErr := newAPIError(resp.StatusCode(), resp.Body())
		c.logger.Warn("reporting api returned error",
			"operation", op,
			"status", apiErr.StatusCode,
			"detail", apiErr.Detail,
		)
		return fmt.Errorf("%s: %w", op, apiErr)
	}
	c.metrics.APIRequests.WithLabelValues(op, "success").Inc()

	if result == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func statusOutcome(code int) string {
	if code >= 500 {
		return "http_5xx"
	}
	return "http_4xx"
}

// ResolveRole looks up the role of the caller holding token.
func (c *Client) ResolveRole(ctx context.Context, token string) (domain.Role, error) {
	id, err := c.WithToken(token).WhoAmI(ctx)
	if err != nil {
		return "", err
	}
	return id.Role()
}

// ResolveAccessRole looks up the caller's role for an access check. Unlike
// ResolveRole, an account without a role is an error.
func (c *Client) ResolveAccessRole(ctx context.Context, token string) (domain.Role, error) {
	id, err := c.WithToken(token).WhoAmI(ctx)
	if err != nil {
		return "", err
	}
	return id.AccessRole()
}
