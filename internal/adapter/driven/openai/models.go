package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gregjones/httpcache"
)

// chatModelPrefix selects chat-capable models from the provider's model list.
const chatModelPrefix = "gpt-"

// newCatalogClient wraps base's transport in an in-memory HTTP cache so
// repeated settings page loads revalidate the model list with conditional
// requests instead of refetching it.
func newCatalogClient(base *http.Client) *http.Client {
	cache := httpcache.NewMemoryCacheTransport()
	cache.Transport = base.Transport
	return &http.Client{
		Transport: cache,
		Timeout:   base.Timeout,
	}
}

type modelListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels returns the sorted ids of chat models visible to the configured
// API key.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.Configured() {
		return nil, errors.New("openai models: api key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("openai models: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.catalog.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai models: http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("openai models: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var list modelListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("openai models: decode: %w", err)
	}

	ids := make([]string, 0, len(list.Data))
	for _, m := range list.Data {
		if strings.HasPrefix(m.ID, chatModelPrefix) {
			ids = append(ids, m.ID)
		}
	}
	sort.Strings(ids)

	return ids, nil
}
