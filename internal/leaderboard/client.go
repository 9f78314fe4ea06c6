package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hackercrush/hackercrush/internal/game"
)

// Client talks to a remote leaderboard service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmitScore posts an entry and returns the handle's rank for that
// mode. Scores above MaxClientScore are refused locally without a
// request.
func (c *Client) SubmitScore(ctx context.Context, e Entry) (int, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if e.Score > MaxClientScore {
		return 0, ErrInvalidScore
	}

	body, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("encode entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to submit score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("submit score: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Entry Entry `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode submit response: %w", err)
	}
	return out.Entry.Rank, nil
}

// Top fetches the highest scores for a mode.
func (c *Client) Top(ctx context.Context, mode game.Mode, limit int) ([]Entry, error) {
	q := url.Values{}
	q.Set("mode", string(mode))
	q.Set("limit", strconv.Itoa(ClampLimit(limit)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/scores?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch scores: unexpected status %d", resp.StatusCode)
	}

	var list ScoreList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return list.Entries, nil
}

// Rank fetches one handle's standing in a mode.
func (c *Client) Rank(ctx context.Context, handle string, mode game.Mode) (RankResult, error) {
	q := url.Values{}
	q.Set("mode", string(mode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/scores/"+url.PathEscape(handle)+"?"+q.Encode(), nil)
	if err != nil {
		return RankResult{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RankResult{}, fmt.Errorf("failed to fetch rank: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return RankResult{}, ErrNotRanked
	}
	if resp.StatusCode != http.StatusOK {
		return RankResult{}, fmt.Errorf("fetch rank: unexpected status %d", resp.StatusCode)
	}

	var rr RankResult
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return RankResult{}, fmt.Errorf("decode rank: %w", err)
	}
	return rr, nil
}
