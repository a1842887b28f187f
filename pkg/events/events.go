package events

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// CatalogRefreshed announces a finished import.
type CatalogRefreshed struct {
	RunID             string   `json:"runId"`
	Term              string   `json:"term"`
	Departments       int      `json:"departments"`
	Inserted          int      `json:"inserted"`
	Failed            int      `json:"failed"`
	FailedDepartments []string `json:"failedDepartments,omitempty"`
	DryRun            bool     `json:"dryRun"`
}

type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPublisher(client *pubsub.Client, topicID string) *Publisher {
	return &Publisher{client: client, topic: client.Topic(topicID)}
}

// Publish sends the event and waits for the server to accept it.
func (p *Publisher) Publish(ctx context.Context, event CatalogRefreshed) (string, error) {
	msg, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to create message: %v", err)
	}
	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:       msg,
		Attributes: map[string]string{"runId": event.RunID},
	})
	id, err := res.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message: %v", err)
	}
	return id, nil
}

// Close flushes pending messages and releases the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
