package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
)

const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
	profilePath  = "/api/user/profile"

	maxErrorBody = 64 << 10
)

// Client talks to the profile service over HTTP. It holds no credentials;
// callers pass the bearer token to each authenticated call.
type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

type ClientOption func(*ClientOptions)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.Timeout = timeout
	}
}

// NewClient builds a client for baseURL. Every request is bounded by the
// configured timeout, constants.DefaultClientTimeout when unset.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultClientTimeout
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.HTTPClient != nil {
		clone := *opts.HTTPClient
		if clone.Timeout <= 0 {
			clone.Timeout = opts.Timeout
		}
		httpClient = &clone
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	var resp dto.AuthResponse
	err := c.do(ctx, http.MethodPost, registerPath, "", req, &resp)
	return resp, err
}

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	var resp dto.AuthResponse
	err := c.do(ctx, http.MethodPost, loginPath, "", req, &resp)
	return resp, err
}

func (c *Client) GetProfile(ctx context.Context, token string) (dto.User, error) {
	var resp dto.User
	err := c.do(ctx, http.MethodGet, profilePath, token, nil, &resp)
	return resp, err
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req dto.UpdateProfileRequest) (dto.UpdateProfileResponse, error) {
	var resp dto.UpdateProfileResponse
	err := c.do(ctx, http.MethodPut, profilePath, token, req, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details struct {
		Fields []commonerrors.FieldError `json:"fields"`
	} `json:"details"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var env errorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&env); err == nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
		apiErr.Fields = env.Details.Fields
	}
	return apiErr
}
