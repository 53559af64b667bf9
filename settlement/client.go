// Package settlement hands completed matches to the external wallet
// service that pays out the prize split. The handoff is fire-and-forget:
// a settlement failure is logged for reconciliation, never propagated
// back into match state.
package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client posts settlement requests to the wallet service.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient builds a settlement client for the given wallet service URL.
// An empty URL yields a nil client, which callers treat as settlement
// disabled.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type settleRequest struct {
	MatchID     string  `json:"match_id"`
	WinnerID    string  `json:"winner_id"`
	PrizePool   float64 `json:"prize_pool"`
	WinnerPrize float64 `json:"winner_prize"`
	HouseCut    float64 `json:"house_cut"`
}

// Settle implements match.Settler. The post runs on its own goroutine so
// the completing match never waits on the wallet service.
func (c *Client) Settle(matchID, winnerID string, prizePool, winnerPrize float64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.post(ctx, settleRequest{
			MatchID:     matchID,
			WinnerID:    winnerID,
			PrizePool:   prizePool,
			WinnerPrize: winnerPrize,
			HouseCut:    prizePool - winnerPrize,
		}); err != nil {
			log.Printf("settlement: match %s payout failed, needs reconciliation: %v", matchID, err)
		}
	}()
}

func (c *Client) post(ctx context.Context, req settleRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode settlement request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/settlements", c.BaseURL), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("X-Service-Token", c.Token)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call wallet service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("wallet service returned status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
