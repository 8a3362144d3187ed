// Package jobs holds scheduled maintenance tasks.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// TokenPurger deletes refresh tokens that expired or were revoked before
// the cutoff.
type TokenPurger interface {
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeTokens removes refresh tokens dead for longer than grace.
func PurgeTokens(ctx context.Context, p TokenPurger, grace time.Duration, now time.Time, log *logrus.Logger) {
	n, err := p.PurgeExpired(ctx, now.Add(-grace))
	if err != nil {
		log.WithError(err).Error("jobs: purge refresh tokens failed")
		return
	}
	log.WithField("deleted", n).Info("jobs: purged refresh tokens")
}

// Schedule registers the maintenance jobs on a new cron scheduler.  The
// caller starts and stops it.
func Schedule(p TokenPurger, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		PurgeTokens(ctx, p, 24*time.Hour, time.Now().UTC(), log)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
