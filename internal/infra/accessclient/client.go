package accessclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/observability/tracing"
)

type accessResponse struct {
	HasAccess  bool   `json:"has_access"`
	SubjectKey string `json:"subject_key"`
}

// Client talks to the account service for access lookups and sign-outs.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
	}
}

func newClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) Fetch(ctx context.Context, subjectID string) (*domain.RemoteAccess, error) {
	u, err := c.endpoint("/api/v1/access/" + url.PathEscape(subjectID))
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "access.fetch", u)
	defer span.End()

	req, err := c.newRequest(ctx, http.MethodGet, u)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send request to account service",
			slog.String("url", u),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		slog.ErrorContext(ctx, "unexpected status code from account service",
			slog.String("url", u),
			slog.Int("status_code", resp.StatusCode),
		)
		tracing.RecordError(span, err)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var decoded accessResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	slog.DebugContext(ctx, "fetched subject access",
		slog.String("subject_id", subjectID),
		slog.Bool("has_access", decoded.HasAccess),
	)

	return &domain.RemoteAccess{
		RemoteFlag: decoded.HasAccess,
		SubjectKey: decoded.SubjectKey,
	}, nil
}

func (c *Client) Revoke(ctx context.Context, subjectID string) error {
	u, err := c.endpoint("/api/v1/sessions/" + url.PathEscape(subjectID) + "/revoke")
	if err != nil {
		return err
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "access.revoke", u)
	defer span.End()

	req, err := c.newRequest(ctx, http.MethodPost, u)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send revoke request",
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		// A missing session is already signed out.
	default:
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		slog.ErrorContext(ctx, "unexpected status code when revoking session",
			slog.String("subject_id", subjectID),
			slog.Int("status_code", resp.StatusCode),
		)
		tracing.RecordError(span, err)
		return err
	}

	slog.InfoContext(ctx, "session revoked",
		slog.String("subject_id", subjectID),
	)
	return nil
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	u = u.JoinPath(path)
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-request-id", logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)
	return req, nil
}
