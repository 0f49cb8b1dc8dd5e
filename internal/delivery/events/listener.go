// Package events feeds contractor update notifications from Postgres into the contractor service.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"fixit/internal/domain"
)

const (
	defaultPingInterval  = 90 * time.Second
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// Source delivers Postgres notifications. *pq.Listener implements it.
type Source interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
}

// ContractorListener dispatches contractor update notifications one at a time.
type ContractorListener struct {
	source       Source
	service      domain.ContractorService
	logger       *slog.Logger
	pingInterval time.Duration
}

// NewContractorListener returns a listener that feeds every notification from source to svc.
func NewContractorListener(source Source, svc domain.ContractorService, logger *slog.Logger) *ContractorListener {
	return &ContractorListener{
		source:       source,
		service:      svc,
		logger:       logger,
		pingInterval: defaultPingInterval,
	}
}

// NewPQListener opens a dedicated connection listening on channel.
func NewPQListener(dsn, channel string, logger *slog.Logger) (*pq.Listener, error) {
	l := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("contractor listener connected", "channel", channel)
		case pq.ListenerEventDisconnected:
			logger.Warn("contractor listener disconnected", "channel", channel, "err", err)
		case pq.ListenerEventReconnected:
			logger.Info("contractor listener reconnected", "channel", channel)
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Error("contractor listener connection attempt failed", "channel", channel, "err", err)
		}
	})
	if err := l.Listen(channel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("listen on %s: %w", channel, err)
	}
	return l, nil
}

// Run consumes notifications until ctx is done or the source channel closes.
func (l *ContractorListener) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.pingInterval)
	defer ticker.Stop()

	notifications := l.source.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return errors.New("contractor listener: notification channel closed")
			}
			if n == nil {
				// Sent after a reconnect. Updates made while disconnected are not replayed.
				l.logger.WarnContext(ctx, "contractor listener reconnected, updates may have been missed")
				continue
			}
			_ = l.Dispatch(ctx, n.Extra)
		case <-ticker.C:
			if err := l.source.Ping(); err != nil {
				l.logger.WarnContext(ctx, "contractor listener ping failed", "err", err)
			}
		}
	}
}

// Dispatch decodes one notification payload and hands it to the contractor service.
func (l *ContractorListener) Dispatch(ctx context.Context, payload string) error {
	var change domain.ContractorChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		l.logger.ErrorContext(ctx, "malformed contractor notification", "err", err)
		return fmt.Errorf("decode contractor notification: %w", err)
	}
	if err := l.service.HandleStatusChange(ctx, change); err != nil {
		l.logger.ErrorContext(ctx, "contractor status change failed", "contractor_id", change.ContractorID, "err", err)
		return err
	}
	return nil
}
