package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventsListKey = "events:list"

// Client wraps Redis for the two hot lookups: the public event list and
// bearer-token authentication.
type Client struct {
	client    *redis.Client
	eventsTTL time.Duration
	tokensTTL time.Duration
}

type Config struct {
	Addr      string
	Password  string
	DB        int
	EventsTTL time.Duration
	TokensTTL time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{
		client:    rdb,
		eventsTTL: cfg.EventsTTL,
		tokensTTL: cfg.TokensTTL,
	}, nil
}

// GetEventsListRaw returns the cached event list as raw JSON, avoiding an
// unmarshal/marshal round trip on the hot path.
func (c *Client) GetEventsListRaw(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, eventsListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("events list not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

func (c *Client) SetEventsList(ctx context.Context, events any) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal events for cache: %w", err)
	}
	return c.client.Set(ctx, eventsListKey, data, c.eventsTTL).Err()
}

// InvalidateEventsList drops the cached list after any catalog write
func (c *Client) InvalidateEventsList(ctx context.Context) error {
	return c.client.Del(ctx, eventsListKey).Err()
}

// GetAuthByToken resolves a bearer token to a user id and role from cache.
// The cached value is "id:role".
func (c *Client) GetAuthByToken(ctx context.Context, token string) (int64, string, error) {
	val, err := c.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, "", fmt.Errorf("token not in cache")
		}
		return 0, "", fmt.Errorf("cache lookup error: %w", err)
	}

	idPart, role, found := strings.Cut(val, ":")
	if !found {
		return 0, "", fmt.Errorf("malformed auth entry in cache")
	}

	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user id in cache: %w", err)
	}
	return userID, role, nil
}

func (c *Client) SetAuthToken(ctx context.Context, token string, userID int64, role string) error {
	val := strconv.FormatInt(userID, 10) + ":" + role
	return c.client.Set(ctx, tokenKey(token), val, c.tokensTTL).Err()
}

func tokenKey(token string) string {
	return "auth:token:" + token
}

func (c *Client) Close() error {
	return c.client.Close()
}
