// Package statsapi reads player game logs and game status from the MLB Stats API.
package statsapi

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

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/okian/onbase/internal/domain/model"
	"github.com/okian/onbase/pkg/metrics"
)

// DefaultBaseURL is the public MLB Stats API host.
const DefaultBaseURL = "https://statsapi.mlb.com"

const (
	endpointGameLog  = "game_log"
	endpointLiveFeed = "live_feed"

	codedStateFinal = "F"
)

// Client is a small MLB Stats API client.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	cacheSize int
	finals    *lru.Cache[int, bool]
}

// NewClient builds a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		timeout:   10 * time.Second,
		limiter:   rate.NewLimiter(rate.Limit(5), 2),
		cacheSize: 256,
	}
	for _, opt := range opts {
		opt(c)
	}
	finals, err := lru.New[int, bool](c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("final status cache: %w", err)
	}
	c.finals = finals
	return c, nil
}

type gameLogResponse struct {
	Stats []struct {
		Splits []split `json:"splits"`
	} `json:"stats"`
}

type split struct {
	Date   string     `json:"date"`
	Season flexString `json:"season"`
	Game   struct {
		GamePK int `json:"gamePk"`
	} `json:"game"`
	Opponent struct {
		Name string `json:"name"`
	} `json:"opponent"`
	Stat struct {
		Hits             flexString `json:"hits"`
		BaseOnBalls      flexString `json:"baseOnBalls"`
		HitByPitch       flexString `json:"hitByPitch"`
		PlateAppearances flexString `json:"plateAppearances"`
	} `json:"stat"`
}

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// GameLogs returns the player's regular-season hitting game log for season,
// in upstream order. A season without splits yields ErrNoData.
func (c *Client) GameLogs(ctx context.Context, playerID, season int) ([]model.GameRecord, error) {
	q := url.Values{}
	q.Set("stats", "gameLog")
	q.Set("season", strconv.Itoa(season))
	q.Set("group", "hitting")
	q.Set("gameType", "R")
	u := fmt.Sprintf("%s/api/v1/people/%d/stats?%s", c.baseURL, playerID, q.Encode())

	var resp gameLogResponse
	if err := c.getJSON(ctx, endpointGameLog, u, &resp); err != nil {
		return nil, err
	}
	if len(resp.Stats) == 0 || len(resp.Stats[0].Splits) == 0 {
		return nil, fmt.Errorf("season %d: %w", season, ErrNoData)
	}

	out := make([]model.GameRecord, 0, len(resp.Stats[0].Splits))
	for _, s := range resp.Stats[0].Splits {
		out = append(out, model.GameRecord{
			GamePK:           s.Game.GamePK,
			Date:             s.Date,
			Season:           string(s.Season),
			Opponent:         s.Opponent.Name,
			Hits:             string(s.Stat.Hits),
			Walks:            string(s.Stat.BaseOnBalls),
			HitByPitch:       string(s.Stat.HitByPitch),
			PlateAppearances: string(s.Stat.PlateAppearances),
		})
	}
	return out, nil
}

type liveFeedResponse struct {
	GameData struct {
		Status struct {
			CodedGameState string `json:"codedGameState"`
		} `json:"status"`
	} `json:"gameData"`
}

// IsGameFinal reports whether the game has finished. Final answers are
// cached since a final game stays final.
func (c *Client) IsGameFinal(ctx context.Context, gamePK int) (bool, error) {
	if final, ok := c.finals.Get(gamePK); ok {
		metrics.RecordFinalCacheHit()
		return final, nil
	}

	u := fmt.Sprintf("%s/api/v1.1/game/%d/feed/live", c.baseURL, gamePK)
	var resp liveFeedResponse
	if err := c.getJSON(ctx, endpointLiveFeed, u, &resp); err != nil {
		return false, err
	}
	final := resp.GameData.Status.CodedGameState == codedStateFinal
	if final {
		c.finals.Add(gamePK, true)
	}
	return final, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, u string, dst any) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordUpstreamRequest(endpoint, status, time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstream, endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}
	return nil
}
