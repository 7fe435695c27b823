package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/kova98/adwatch.api/data"
	"github.com/kova98/adwatch.api/metrics"
	"github.com/kova98/adwatch.api/models"
)

type unnotifiedResults interface {
	GetUnnotifiedResults() ([]data.DetectionResult, error)
	MarkNotified(ids []int64, notifiedAt time.Time) error
}

type digestMailer interface {
	DetectionDigestEmail(email string, results []data.DetectionResult) (models.Email, error)
	Send(mail models.Email) error
}

// Notifier mails stored detections to the alert recipient once a minute.
type Notifier struct {
	results   unnotifiedResults
	mailer    digestMailer
	metrics   *metrics.Metrics
	recipient string
}

func NewNotifier(mailer digestMailer, results unnotifiedResults, m *metrics.Metrics, recipient string) *Notifier {
	return &Notifier{
		results:   results,
		mailer:    mailer,
		metrics:   m,
		recipient: recipient,
	}
}

func (n *Notifier) Start(ctx context.Context) {
	if err := n.notify(); err != nil {
		slog.Error("notify:", "error", err)
	}

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := n.notify(); err != nil {
					slog.Error("notify:", "error", err)
				}
			}
		}
	}()
}

func (n *Notifier) notify() error {
	unnotified, err := n.results.GetUnnotifiedResults()
	if err != nil {
		return errors.Wrap(err, "notify: get unnotified results")
	}
	if len(unnotified) == 0 {
		return nil
	}

	digest, err := n.mailer.DetectionDigestEmail(n.recipient, unnotified)
	if err != nil {
		return errors.Wrap(err, "notify: create digest email")
	}
	if err := n.mailer.Send(digest); err != nil {
		return errors.Wrap(err, "notify: send digest")
	}
	n.metrics.AlertsSent.Inc()

	ids := make([]int64, 0, len(unnotified))
	for _, r := range unnotified {
		ids = append(ids, r.ID)
	}
	if err := n.results.MarkNotified(ids, time.Now()); err != nil {
		return errors.Wrap(err, "notify: mark results as notified")
	}

	return nil
}
