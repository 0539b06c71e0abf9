package miniapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/duolove/duolove/internal/models"
	"github.com/duolove/duolove/internal/service"
)

// Client — HTTP-клиент мини-приложения к бэкенду DuoLove.
// Таймаут ограничивает редемпшен: зависший запрос — это FAILED, а не вечный pending.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type connectResponse struct {
	Success     bool                       `json:"success"`
	Partnership *models.PartnershipSummary `json:"partnership"`
}

type statusResponse struct {
	Partnership *models.Partnership `json:"partnership"`
	HasPartner  bool                `json:"hasPartner"`
}

type generateResponse struct {
	ReferralCode string `json:"referralCode"`
	ReferralLink string `json:"referralLink"`
	Success      bool   `json:"success"`
}

func (c *Client) Connect(ctx context.Context, code string, userID int64, userName string) (*models.PartnershipSummary, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/referral/connect", map[string]interface{}{
		"referralCode": code,
		"userId":       userID,
		"userName":     userName,
	})
	if err != nil {
		return nil, err
	}

	var resp connectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode connect response: %w", err)
	}
	if resp.Partnership == nil {
		return nil, fmt.Errorf("connect response without partnership")
	}
	return resp.Partnership, nil
}

func (c *Client) PartnerStatus(ctx context.Context, userID int64) (*models.Partnership, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/partner/status/%d", userID), nil)
	if err != nil {
		return nil, err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return resp.Partnership, nil
}

func (c *Client) GenerateLink(ctx context.Context, userID int64) (code, link string, err error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/referral/generate", map[string]interface{}{
		"userId": userID,
	})
	if err != nil {
		return "", "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	return resp.ReferralCode, resp.ReferralLink, nil
}

func (c *Client) Disconnect(ctx context.Context, userID int64) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/partner/disconnect", map[string]interface{}{
		"userId": userID,
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, body)
	}
	return body, nil
}

// apiError восстанавливает класс ошибки сервера из кода статуса.
func apiError(status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)
	if e.Error == "" {
		e.Error = fmt.Sprintf("API error %d", status)
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", e.Error, service.ErrNotFound)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", e.Error, service.ErrConflict)
	default:
		return fmt.Errorf("API error %d: %s", status, e.Error)
	}
}
