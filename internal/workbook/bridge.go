package workbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Bridge talks to the task-pane bridge process that proxies cell access to
// the host spreadsheet. The bridge exposes two endpoints:
//
//	POST {base}/selection/read   returns {"values": [[...]]}
//	POST {base}/selection/write  takes   {"value": <number>}
type Bridge struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewBridge returns a Bridge for the given base URL.
func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type readResponse struct {
	Values [][]any `json:"values"`
}

func (b *Bridge) ReadSelectedCell(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/selection/read", nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workbook: read selection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("workbook: read selection: HTTP %d", resp.StatusCode)
	}

	var body readResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("workbook: read selection: %w", err)
	}
	if len(body.Values) == 0 || len(body.Values[0]) == 0 {
		return nil, ErrNoSelection
	}
	// Only the top-left cell of the selection matters.
	return body.Values[0][0], nil
}

func (b *Bridge) WriteSelectedCell(ctx context.Context, value float64) error {
	payload, err := json.Marshal(map[string]float64{"value": value})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/selection/write", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("workbook: write selection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("workbook: write selection: HTTP %d", resp.StatusCode)
	}
	return nil
}
