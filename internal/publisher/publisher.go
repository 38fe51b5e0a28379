// Package publisher emits a post-ingest event on a Redis stream so
// downstream consumers (site rebuilds, notification bots) learn about new
// games without polling the ledger.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream carrying ingest events.
const ingestedStream = "statline.ingested"

// IngestedEvent describes one completed ingestion run.
type IngestedEvent struct {
	GameKey  string   `json:"game_key"`
	Date     string   `json:"date"`
	Team1    string   `json:"team1"`
	Team2    string   `json:"team2"`
	Rows     int      `json:"rows"`
	Unmapped []string `json:"unmapped,omitempty"`
}

// Publisher publishes ingest events to Redis streams.
type Publisher struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(redisURL string) (*Publisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Publisher{client: client}, nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// PublishIngested appends the event to the ingest stream.
func (p *Publisher) PublishIngested(ctx context.Context, evt IngestedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ingestedStream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
