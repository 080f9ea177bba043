// Package pubsub publishes audit events to a Google Cloud Pub/Sub topic as
// JSON messages ordered by user ID.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	audit "warehouse/pkg/platform/audit"
)

type Sink struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewSink connects to projectID. credentialsJSON may be empty to use
// application default credentials; extra client options are appended after it.
func NewSink(ctx context.Context, projectID, topic, credentialsJSON string, opts ...option.ClientOption) (*Sink, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id is required")
	}
	if topic == "" {
		return nil, errors.New("pubsub topic is required")
	}
	if credentialsJSON != "" {
		opts = append([]option.ClientOption{option.WithCredentialsJSON([]byte(credentialsJSON))}, opts...)
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	t := client.Topic(topic)
	t.EnableMessageOrdering = true
	return &Sink{client: client, topic: t}, nil
}

// EnsureTopic creates the topic if it does not exist.
func (s *Sink) EnsureTopic(ctx context.Context) error {
	ok, err := s.topic.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check topic %s: %w", s.topic.ID(), err)
	}
	if ok {
		return nil
	}
	if _, err := s.client.CreateTopic(ctx, s.topic.ID()); err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic.ID(), err)
	}
	return nil
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	key := event.UserID.String()
	result := s.topic.Publish(ctx, &pubsub.Message{
		Data:        payload,
		OrderingKey: key,
		Attributes: map[string]string{
			"category": string(event.Category),
			"action":   event.Action,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		s.topic.ResumePublish(key)
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.topic.Stop()
	return s.client.Close()
}
