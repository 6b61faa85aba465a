// Package supabase calls PostgREST RPC functions exposed by the Supabase project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClientInterface interface {
	IsAdminUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) IsAdminUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var isAdmin bool
	if err := c.rpc(ctx, "is_admin_user", map[string]string{"user_id": userID.String()}, &isAdmin); err != nil {
		return false, err
	}
	return isAdmin, nil
}

func (c *Client) rpc(ctx context.Context, name string, params any, out any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, name), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logger.Log.Error("failed to close supabase response body", zap.Error(err))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("supabase rpc %s: unexpected status %d", name, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase rpc %s: decode: %w", name, err)
	}
	return nil
}
