package observability

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/gatehouse/gatehouse/pkg/users"
)

// GaugeRefresher keeps the registered-accounts gauge current by re-counting
// the store on a cron schedule
type GaugeRefresher struct {
	store   users.Store
	metrics *Metrics
	logger  *logrus.Logger
	cron    *cron.Cron
}

// NewGaugeRefresher creates a refresher; call Start to begin the schedule
func NewGaugeRefresher(store users.Store, metrics *Metrics, logger *logrus.Logger) *GaugeRefresher {
	if logger == nil {
		logger = logrus.New()
	}
	return &GaugeRefresher{
		store:   store,
		metrics: metrics,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start registers the schedule (cron spec, e.g. "@every 1m") and runs one
// immediate refresh so the gauge is populated before the first tick
func (g *GaugeRefresher) Start(schedule string) error {
	if _, err := g.cron.AddFunc(schedule, g.refresh); err != nil {
		return err
	}
	g.refresh()
	g.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish
func (g *GaugeRefresher) Stop() {
	<-g.cron.Stop().Done()
}

func (g *GaugeRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := g.store.Count(ctx)
	if err != nil {
		g.logger.WithError(err).Warn("account gauge refresh failed")
		return
	}
	g.metrics.SetRegisteredAccounts(n)
}
