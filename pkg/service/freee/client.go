package freee

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

	"github.com/kintai-dev/workstamper/pkg/domain/model"
	"github.com/kintai-dev/workstamper/pkg/domain/types"
	"github.com/kintai-dev/workstamper/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultAPIBaseURL is the freee HR API host
	DefaultAPIBaseURL = "https://api.freee.co.jp"
	// DefaultOAuthBaseURL is the freee accounts host serving the
	// authorize and token endpoints
	DefaultOAuthBaseURL = "https://accounts.secure.freee.co.jp"

	companyIDHeader = "FREEE-COMPANY-ID"
)

// client implements Service
type client struct {
	httpClient   *http.Client
	apiBaseURL   string
	oauthBaseURL string
	clientID     string
	clientSecret string
	redirectURL  string
	companyID    int64
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient replaces the HTTP client (mainly for tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithAPIBaseURL overrides the HR API host
func WithAPIBaseURL(baseURL string) Option {
	return func(c *client) {
		c.apiBaseURL = baseURL
	}
}

// WithOAuthBaseURL overrides the accounts host
func WithOAuthBaseURL(baseURL string) Option {
	return func(c *client) {
		c.oauthBaseURL = baseURL
	}
}

// New creates a new freee HR service
func New(clientID, clientSecret, redirectURL string, companyID int64, opts ...Option) (Service, error) {
	if clientID == "" || clientSecret == "" {
		return nil, goerr.New("freee client ID and secret are required")
	}
	if companyID == 0 {
		return nil, goerr.New("freee company ID is required")
	}

	c := &client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiBaseURL:   DefaultAPIBaseURL,
		oauthBaseURL: DefaultOAuthBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		companyID:    companyID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do issues one request and decodes the JSON response into out (if non-nil).
// Non-2xx responses become an error carrying status and body.
func (c *client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "freee request failed",
			goerr.V("method", req.Method), goerr.V("url", req.URL.String()))
	}
	defer safe.Close(ctx, resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read freee response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("freee API returned error",
			goerr.V("method", req.Method),
			goerr.V("url", req.URL.String()),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return goerr.Wrap(err, "failed to parse freee response",
				goerr.V("url", req.URL.String()))
		}
	}

	return nil
}

func (c *client) apiRequest(ctx context.Context, accessToken, method, path string, query url.Values, payload any) (*http.Request, error) {
	reqURL := c.apiBaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode freee request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create freee request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set(companyIDHeader, strconv.FormatInt(c.companyID, 10))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *client) GetEmployeeByEmail(ctx context.Context, accessToken, email string) (*Employee, error) {
	query := url.Values{}
	query.Set("email", email)
	path := fmt.Sprintf("/hr/api/v1/companies/%d/employees", c.companyID)

	req, err := c.apiRequest(ctx, accessToken, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Employees []Employee `json:"employees"`
	}
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}

	if len(result.Employees) == 0 {
		return nil, goerr.Wrap(ErrEmployeeNotFound, "no employee matches email", goerr.V("email", email))
	}

	return &result.Employees[0], nil
}

func (c *client) PostTimeClock(ctx context.Context, accessToken string, employeeID types.EmployeeID, clockType types.TimeClockType, at time.Time) error {
	if !clockType.IsValid() {
		return goerr.New("invalid time clock type", goerr.V("type", clockType))
	}

	payload := map[string]any{
		"company_id": c.companyID,
		"type":       clockType.String(),
		"base_date":  at.Format(model.DateLayout),
		"datetime":   at.Format(time.RFC3339),
	}
	path := fmt.Sprintf("/hr/api/v1/employees/%d/time_clocks", employeeID)

	req, err := c.apiRequest(ctx, accessToken, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}

	return c.do(ctx, req, nil)
}

func (c *client) GetWorkRecord(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time) (*WorkRecord, error) {
	query := url.Values{}
	query.Set("company_id", strconv.FormatInt(c.companyID, 10))
	path := fmt.Sprintf("/hr/api/v1/employees/%d/work_records/%s", employeeID, date.Format(model.DateLayout))

	req, err := c.apiRequest(ctx, accessToken, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var record WorkRecord
	if err := c.do(ctx, req, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (c *client) UpdateWorkRecordTags(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time, tags []types.WorkTag) error {
	tagNames := make([]string, len(tags))
	for i, tag := range tags {
		tagNames[i] = tag.String()
	}

	payload := map[string]any{
		"company_id": c.companyID,
		"tags":       tagNames,
	}
	path := fmt.Sprintf("/hr/api/v1/employees/%d/work_records/%s", employeeID, date.Format(model.DateLayout))

	req, err := c.apiRequest(ctx, accessToken, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}

	return c.do(ctx, req, nil)
}

func (c *client) ListLeaveTypes(ctx context.Context, accessToken string) ([]LeaveType, error) {
	path := fmt.Sprintf("/hr/api/v1/companies/%d/work_record_templates", c.companyID)

	req, err := c.apiRequest(ctx, accessToken, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var templates []struct {
		ID       types.LeaveTypeID `json:"id"`
		Name     string            `json:"name"`
		Category string            `json:"category"`
	}
	if err := c.do(ctx, req, &templates); err != nil {
		return nil, err
	}

	var leaveTypes []LeaveType
	for _, t := range templates {
		if t.Category != "leave" {
			continue
		}
		leaveTypes = append(leaveTypes, LeaveType{ID: t.ID, Name: t.Name})
	}

	return leaveTypes, nil
}

func (c *client) UpdateLeaveRecord(ctx context.Context, accessToken string, employeeID types.EmployeeID, date time.Time, leaveTypeID types.LeaveTypeID, reason string) error {
	payload := map[string]any{
		"company_id":    c.companyID,
		"leave_type_id": leaveTypeID,
		"note":          reason,
	}
	path := fmt.Sprintf("/hr/api/v1/employees/%d/work_records/%s", employeeID, date.Format(model.DateLayout))

	req, err := c.apiRequest(ctx, accessToken, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}

	return c.do(ctx, req, nil)
}
