package accessgate

import (
	"context"
	"log"
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	"github.com/quiroferreira/clinic-scheduler/internal/redislock"
)

const sweepTask = "subscription-sweep"

// Sweeper triggers Gate.Sweep once per local day at a fixed wall-clock
// time. A Redis per-day claim elects a single sweeper when several
// processes share the database, and doubles as the "already ran today"
// marker for the catch-up run at process start.
type Sweeper struct {
	gate    *Gate
	clock   *clock.Service
	claimer redislock.DayClaimer

	sweepHour   int
	sweepMinute int
}

func NewSweeper(gate *Gate, clk *clock.Service, claimer redislock.DayClaimer, localTime string) *Sweeper {
	t, err := time.Parse("15:04", localTime)
	if err != nil {
		log.Printf("invalid sweep time %q, falling back to 00:05", localTime)
		t, _ = time.Parse("15:04", "00:05")
	}

	return &Sweeper{
		gate:        gate,
		clock:       clk,
		claimer:     claimer,
		sweepHour:   t.Hour(),
		sweepMinute: t.Minute(),
	}
}

// Run blocks until ctx is cancelled. It checks once per minute whether the
// current local day's sweep is due and unclaimed. The first check happens
// immediately, which covers ticks missed across a restart.
func (s *Sweeper) Run(ctx context.Context) {
	s.tick(ctx)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("sweeper stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if !s.due() {
		return
	}

	today := s.clock.TodayLocal()

	claimed, err := s.claimer.ClaimDay(ctx, sweepTask, today)
	if err != nil {
		log.Printf("sweep claim error: %v", err)
		return
	}
	if !claimed {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := s.gate.Sweep(runCtx)
	if err != nil {
		log.Printf("sweep error: %v", err)
		// give the day back so the next tick retries
		if relErr := s.claimer.ReleaseDay(ctx, sweepTask, today); relErr != nil {
			log.Printf("sweep claim release error: %v", relErr)
		}
		return
	}

	log.Printf(
		"sweep %s done: members_expired=%d dependents_expired=%d",
		today, res.MembersExpired, res.DependentsExpired,
	)
}

// due reports whether the local wall clock has passed today's sweep time.
func (s *Sweeper) due() bool {
	local := s.clock.Now().In(s.clock.Location())
	sweepAt := time.Date(
		local.Year(), local.Month(), local.Day(),
		s.sweepHour, s.sweepMinute, 0, 0,
		s.clock.Location(),
	)
	return !local.Before(sweepAt)
}
