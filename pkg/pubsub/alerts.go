package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bodegonapp/bodegon-backend/pkg/config"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
)

const defaultPublishTimeout = 10 * time.Second

// OrphanAlert describes a dual write whose compensation failed, leaving a
// dangling product row that operators must reconcile by hand.
type OrphanAlert struct {
	ProductID    string    `json:"product_id"`
	ProductKind  string    `json:"product_kind"`
	Operation    string    `json:"operation"`
	WriteError   string    `json:"write_error"`
	CleanupError string    `json:"cleanup_error"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// AlertPublisher pushes orphaned-write alerts to the ops topic. A nil
// publisher is valid and drops alerts silently; callers always log the
// orphan regardless.
type AlertPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
}

// NewAlertPublisher creates a Pub/Sub v2 client bound to the ops alert
// topic. Returns (nil, nil) when alerting is not configured.
func NewAlertPublisher(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*AlertPublisher, error) {
	topic := strings.TrimSpace(cfg.OpsAlertTopic)
	if topic == "" || strings.TrimSpace(gcp.ProjectID) == "" {
		if logg != nil {
			logg.Warn(ctx, "ops alert publishing disabled: topic or project id not configured")
		}
		return nil, nil
	}

	client, err := pubsub.NewClient(ctx, gcp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	fullName := topic
	if !strings.HasPrefix(topic, "projects/") {
		fullName = fmt.Sprintf("projects/%s/topics/%s", gcp.ProjectID, topic)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", topic), "ops alert publisher initialized")
	}

	return &AlertPublisher{
		client:    client,
		publisher: client.Publisher(fullName),
		topic:     topic,
	}, nil
}

// PublishOrphan sends the alert and waits for the server ack.
func (p *AlertPublisher) PublishOrphan(ctx context.Context, alert OrphanAlert) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal orphan alert: %w", err)
	}

	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"alert_type":   "catalog_orphaned_write",
			"product_id":   alert.ProductID,
			"product_kind": alert.ProductKind,
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := p.publisher.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		// v2 uses gRPC errors; NotFound means the topic does not exist.
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("ops alert topic %q does not exist", p.topic)
		}
		return fmt.Errorf("publish orphan alert: %w", err)
	}
	return nil
}

// Close releases the Pub/Sub client resources.
func (p *AlertPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
