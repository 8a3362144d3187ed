package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aloft-stays/internal/logging"
)

type purger struct {
	cutoff time.Time
	err    error
}

func (p *purger) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 2, p.err
}

func TestPurgeTokensUsesGrace(t *testing.T) {
	p := &purger{}
	now := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	PurgeTokens(context.Background(), p, 24*time.Hour, now, logging.Discard())

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), p.cutoff)
}

func TestPurgeTokensSwallowsErrors(t *testing.T) {
	p := &purger{err: errors.New("db down")}
	assert.NotPanics(t, func() {
		PurgeTokens(context.Background(), p, time.Hour, time.Now(), logging.Discard())
	})
}

func TestSchedule(t *testing.T) {
	c, err := Schedule(&purger{}, logging.Discard())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
