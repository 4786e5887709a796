package poller

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultTopic   = "catalog-updated"
	DefaultGroupID = "storefront"

	// readBackoff is the pause after a failed read before trying again
	readBackoff = time.Second
)

// Refresher reloads the catalog after it changed upstream.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// CatalogUpdated is published whenever products are added, changed or removed.
type CatalogUpdated struct {
	ProductIDs []int64 `json:"product_ids"`
}

// Poller consumes catalog change notifications and refreshes the cached catalog.
type Poller struct {
	reader  messageReader
	catalog Refresher
	log     *zap.Logger
	backoff time.Duration
}

func NewPoller(catalog Refresher, log *zap.Logger, topic, groupID string, brokers ...string) *Poller {
	if topic == "" {
		topic = DefaultTopic
	}
	if groupID == "" {
		groupID = DefaultGroupID
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{reader: reader, catalog: catalog, log: log, backoff: readBackoff}
}

// Run blocks until ctx is cancelled. Failed reads are retried after a pause.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := p.refreshOnMessage(ctx); err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.backoff):
			}
		}
	}
}

func (p *Poller) Close() error {
	return p.reader.Close()
}

// refreshOnMessage handles one message. Only read errors are returned; bad
// payloads and refresh failures are logged and skipped.
func (p *Poller) refreshOnMessage(ctx context.Context) error {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.log.Warn("error reading catalog update", zap.Error(err))
		}
		return err
	}

	var payload CatalogUpdated
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		p.log.Warn("error parsing catalog update", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}

	if err := p.catalog.Refresh(ctx); err != nil {
		p.log.Error("failed to refresh catalog", zap.Error(err))
		return nil
	}
	p.log.Info("catalog refreshed", zap.Int64s("product_ids", payload.ProductIDs))
	return nil
}
