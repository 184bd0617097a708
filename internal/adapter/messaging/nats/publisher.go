package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

const (
	SubjectListingCreated     = "listing.created"
	SubjectListingUpdated     = "listing.updated"
	SubjectListingRepublished = "listing.republished"
	SubjectListingArchived    = "listing.archived"
)

var tracer = otel.Tracer("listing-service/nats-publisher")

// Publisher emits listing lifecycle events as JSON messages. It implements
// usecase.EventPublisher.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger, appName string) (*Publisher, error) {
	logger.Info("connecting to NATS", zap.String("url", url))

	opts := []nats.Option{
		nats.Name(fmt.Sprintf("%s NATS Publisher", appName)),
		nats.Timeout(10 * time.Second),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	logger.Info("connected to NATS", zap.String("url", conn.ConnectedUrl()))

	return &Publisher{
		conn:   conn,
		logger: logger.Named("NATSPublisher"),
	}, nil
}

// listingCreatedEvent is the payload of listing.created. Downstream consumers
// index on serial code, so it rides along with the id.
type listingCreatedEvent struct {
	ListingID  int64  `json:"listingId"`
	OwnerID    string `json:"ownerId"`
	Kind       string `json:"kind"`
	SerialCode string `json:"serialCode"`
}

type listingEvent struct {
	ListingID int64 `json:"listingId"`
}

// listingsArchivedEvent reports one owner's expiration sweep as a single
// message rather than one message per archived listing.
type listingsArchivedEvent struct {
	OwnerID string `json:"ownerId"`
	Count   int64  `json:"count"`
}

func (p *Publisher) PublishListingCreated(ctx context.Context, listing *domain.Listing) error {
	return p.publish(ctx, SubjectListingCreated, listingCreatedEvent{
		ListingID:  listing.ID,
		OwnerID:    listing.OwnerID,
		Kind:       string(listing.Kind),
		SerialCode: listing.SerialCode,
	})
}

func (p *Publisher) PublishListingUpdated(ctx context.Context, listingID int64) error {
	return p.publish(ctx, SubjectListingUpdated, listingEvent{ListingID: listingID})
}

func (p *Publisher) PublishListingRepublished(ctx context.Context, listingID int64) error {
	return p.publish(ctx, SubjectListingRepublished, listingEvent{ListingID: listingID})
}

func (p *Publisher) PublishListingsArchived(ctx context.Context, ownerID string, count int64) error {
	return p.publish(ctx, SubjectListingArchived, listingsArchivedEvent{OwnerID: ownerID, Count: count})
}

func (p *Publisher) publish(ctx context.Context, subject string, data interface{}) error {
	_, span := tracer.Start(ctx, fmt.Sprintf("NATS.Publish.%s", subject))
	defer span.End()

	jsonData, err := json.Marshal(data)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal event for subject %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = jsonData
	msg.Header = make(nats.Header)

	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, natsHeaderCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		p.logger.Error("failed to publish message", zap.String("subject", subject), zap.Error(err))
		span.RecordError(err)
		return fmt.Errorf("publish to subject %s: %w", subject, err)
	}

	p.logger.Debug("message published", zap.String("subject", subject), zap.Int("data_size_bytes", len(jsonData)))
	return nil
}

// natsHeaderCarrier adapts nats.Header to the OpenTelemetry TextMapCarrier
// so trace context propagates through the broker.
type natsHeaderCarrier nats.Header

func (c natsHeaderCarrier) Get(key string) string {
	return nats.Header(c).Get(key)
}

func (c natsHeaderCarrier) Set(key, value string) {
	nats.Header(c).Set(key, value)
}

func (c natsHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("failed to drain NATS connection", zap.Error(err))
	}
	p.conn.Close()
}
