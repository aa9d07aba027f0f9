// Package stats talks to the analytics collaborator: endpoint hits go out
// through Kafka fire-and-forget, view counts come back over HTTP and are
// cached in Redis. Every call is best effort — a broken analytics backend
// never fails the calling operation.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"

	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

// EndpointHit is the message published for every public event view
type EndpointHit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats is one row of the analytics service's aggregate answer
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits uint64 `json:"hits"`
}

// HitWriter is the Kafka surface the client needs
type HitWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Client struct {
	appName  string
	baseURL  string
	httpc    *http.Client
	writer   HitWriter
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewClient(appName, baseURL string, writer HitWriter, cache *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		appName:  appName,
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: 5 * time.Second},
		writer:   writer,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// RecordHit publishes an endpoint hit. Errors are logged, never returned —
// losing a hit must not abort the request that produced it.
func (c *Client) RecordHit(ctx context.Context, uri, ip string) {
	if c.writer == nil {
		return
	}

	hit := EndpointHit{
		App:       c.appName,
		URI:       uri,
		IP:        ip,
		Timestamp: time.Now().Format(event.DateTimeLayout),
	}
	payload, err := json.Marshal(hit)
	if err != nil {
		log.Printf("⚠️ stats: marshal hit: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := c.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(uuid.NewString()),
			Value: payload,
		})
		if err != nil {
			log.Printf("⚠️ stats: publish hit for %s: %v", uri, err)
		}
	}()
}

// EventViews returns view counts per event id. Cached counts are served from
// Redis; the rest are fetched from the analytics service in one query. Events
// with no data report zero.
func (c *Client) EventViews(ctx context.Context, eventIDs []uint) map[uint]uint64 {
	views := make(map[uint]uint64, len(eventIDs))

	missing := make([]uint, 0, len(eventIDs))
	for _, id := range eventIDs {
		if cached, ok := c.cachedViews(ctx, id); ok {
			views[id] = cached
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 || c.baseURL == "" {
		return views
	}

	fetched, err := c.fetchViews(ctx, missing)
	if err != nil {
		log.Printf("⚠️ stats: fetch views: %v", err)
		return views
	}
	for id, count := range fetched {
		views[id] = count
		c.storeViews(ctx, id, count)
	}
	return views
}

func (c *Client) fetchViews(ctx context.Context, eventIDs []uint) (map[uint]uint64, error) {
	uris := make([]string, 0, len(eventIDs))
	for _, id := range eventIDs {
		uris = append(uris, fmt.Sprintf("/events/%d", id))
	}

	q := url.Values{}
	q.Set("start", "2000-01-01 00:00:00")
	q.Set("end", time.Now().Format(event.DateTimeLayout))
	q.Set("uris", strings.Join(uris, ","))
	q.Set("unique", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats service returned %d", resp.StatusCode)
	}

	var rows []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}

	result := make(map[uint]uint64, len(rows))
	for _, row := range rows {
		idRaw := strings.TrimPrefix(row.URI, "/events/")
		id, err := strconv.ParseUint(idRaw, 10, 32)
		if err != nil {
			continue
		}
		result[uint(id)] = row.Hits
	}
	// Events the analytics service has never seen report zero
	for _, id := range eventIDs {
		if _, ok := result[id]; !ok {
			result[id] = 0
		}
	}
	return result, nil
}

func (c *Client) cachedViews(ctx context.Context, eventID uint) (uint64, bool) {
	if c.cache == nil {
		return 0, false
	}
	raw, err := c.cache.Get(ctx, viewCacheKey(eventID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *Client) storeViews(ctx context.Context, eventID uint, count uint64) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, viewCacheKey(eventID), strconv.FormatUint(count, 10), c.cacheTTL).Err(); err != nil {
		log.Printf("⚠️ stats: cache views for event %d: %v", eventID, err)
	}
}

func viewCacheKey(eventID uint) string {
	return fmt.Sprintf("views:event:%d", eventID)
}
