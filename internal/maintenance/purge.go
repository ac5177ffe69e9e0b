package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/birozsombor4/rest-api-template/internal/metrics"
	"github.com/birozsombor4/rest-api-template/internal/repository"
	"github.com/robfig/cron/v3"
)

// Purger periodically removes verification-token rows that can never be used
// again. The request path only ever supersedes tokens; this is the only
// place dead rows actually leave the table.
type Purger struct {
	tokens   repository.TokenStore
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewPurger(tokens repository.TokenStore, schedule string, logger *slog.Logger) *Purger {
	return &Purger{
		tokens:   tokens,
		schedule: schedule,
		logger:   logger.With("component", "token_purger"),
	}
}

// Start registers the sweep on its cron schedule and begins running it.
func (p *Purger) Start() error {
	c := cron.New()
	_, err := c.AddFunc(p.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		p.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	c.Start()
	p.cron = c
	return nil
}

// RunOnce executes a single sweep. Exposed so operators and tests can
// trigger it outside the schedule.
func (p *Purger) RunOnce(ctx context.Context) {
	n, err := p.tokens.DeleteDead(ctx)
	if err != nil {
		p.logger.Error("purge verification tokens", "error", err)
		return
	}
	if n > 0 {
		metrics.TokensPurgedTotal.Add(float64(n))
		p.logger.Info("purged verification tokens", "count", n)
	}
}

// Stop halts the schedule and waits for a running sweep to finish.
func (p *Purger) Stop() {
	if p.cron != nil {
		<-p.cron.Stop().Done()
	}
}
