package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper is the part of the memory mapping store the janitor drives.
type Sweeper interface {
	SweepExpired() int
}

// MappingJanitor periodically drops expired operation->callback mappings
// from the in-memory store. The redis backend expires keys on its own
// and does not need one.
type MappingJanitor struct {
	store    Sweeper
	interval time.Duration
	log      *zerolog.Logger
}

func NewMappingJanitor(store Sweeper, interval time.Duration, logger *zerolog.Logger) *MappingJanitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MappingJanitor{store: store, interval: interval, log: logger}
}

func (j *MappingJanitor) Run(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if removed := j.store.SweepExpired(); removed > 0 {
				j.log.Debug().Int("removed", removed).Msg("mapping janitor swept expired entries")
			}
		}
	}
}
