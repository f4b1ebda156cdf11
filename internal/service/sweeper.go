package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultSweepInterval is the cadence of the background closure sweep.
// The exact period is a tunable, not a correctness requirement.
const DefaultSweepInterval = 5 * time.Minute

// Sweeper triggers the closure sweep on a fixed interval.
type Sweeper struct {
	sweep    Sweep
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

func NewSweeper(sweep Sweep, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Sweeper{
		sweep:    sweep,
		interval: interval,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.stop:
			return
		}
	}
}

// A panic escaping here would end the loop and no expired task would
// ever close again, so the tick swallows it.
func (s *Sweeper) sweepOnce() {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("closure sweep: recovered: %v", rec)
		}
	}()

	count, err := s.sweep.RunClosureSweep(context.Background(), s.now())
	if err != nil {
		log.Printf("closure sweep: %v", err)

		return
	}

	if count > 0 {
		log.Printf("closure sweep: assigned %d expired task(s)", count)
	}
}

func (s *Sweeper) Shutdown() {
	close(s.stop)
	s.wg.Wait()
}
