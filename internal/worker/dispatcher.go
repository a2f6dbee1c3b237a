package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/service/notification"
	"github.com/matricare/mcare-api/pkg/logger"
	"github.com/matricare/mcare-api/pkg/metrics"
)

// Provider delivers a notification over one channel and returns the
// provider-side message id.
type Provider interface {
	Send(ctx context.Context, n *model.Notification) (string, error)
}

type DispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// Dispatcher drains pending notifications to the channel providers.
type Dispatcher struct {
	service   *notification.Service
	providers map[model.NotificationChannel]Provider
	config    DispatcherConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewDispatcher(
	service *notification.Service,
	providers map[model.NotificationChannel]Provider,
	config DispatcherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Dispatcher {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}

	return &Dispatcher{
		service:   service,
		providers: providers,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("Starting notification dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down notification dispatcher")
			return
		case <-ticker.C:
			if err := d.dispatchPending(ctx); err != nil {
				d.logger.Error(err, "Failed to dispatch notifications")
			}
		}
	}
}

func (d *Dispatcher) dispatchPending(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.DispatchLatency)
	defer timer.ObserveDuration()

	pending, err := d.service.ListPending(ctx, d.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %w", err)
	}

	for _, n := range pending {
		if err := d.dispatch(ctx, n); err != nil {
			d.logger.Error(err, "Failed to dispatch notification",
				"notification_id", n.ID.String(),
				"channel", string(n.Channel))
		}
	}

	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, n *model.Notification) error {
	provider, ok := d.providers[n.Channel]
	if !ok {
		cause := fmt.Sprintf("no provider for channel %s", n.Channel)
		d.metrics.NotificationsFailed.WithLabelValues(string(n.Channel)).Inc()
		if err := d.service.MarkFailed(ctx, n.ID, cause); err != nil {
			return err
		}
		return errors.New(cause)
	}

	providerMessageID, err := provider.Send(ctx, n)
	if err != nil {
		d.metrics.NotificationsFailed.WithLabelValues(string(n.Channel)).Inc()
		if markErr := d.service.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
			d.logger.Error(markErr, "Failed to mark notification failed", "notification_id", n.ID.String())
		}
		return err
	}

	d.metrics.NotificationsSent.WithLabelValues(string(n.Channel)).Inc()
	return d.service.MarkSent(ctx, n.ID, providerMessageID)
}

// LogProvider stands in for a real SMS or push gateway. It logs the
// delivery and fabricates a message id.
type LogProvider struct {
	Channel model.NotificationChannel
	Logger  *logger.Logger
}

func (p *LogProvider) Send(_ context.Context, n *model.Notification) (string, error) {
	p.Logger.Info("Delivering notification",
		"channel", string(p.Channel),
		"to", n.To,
		"template_id", n.TemplateID)
	return uuid.New().String(), nil
}
