package accessgate

import (
	"context"
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/clock"
	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

// Repository is the storage surface the gate needs. Grants are appended by
// the billing collaborator; the gate only reads them. The sweep writes
// exactly two columns on members and dependents.
type Repository interface {
	LatestActiveGrant(
		ctx context.Context,
		professionalID uint,
		now time.Time,
	) (*models.SchedulingAccess, error)

	// ExpireSubscriptions flips active → expired for members and dependents
	// whose expiry precedes the cutoff, inside one transaction.
	ExpireSubscriptions(
		ctx context.Context,
		before time.Time,
	) (membersExpired int64, dependentsExpired int64, err error)
}

type SweepResult struct {
	MembersExpired    int64 `json:"members_expired"`
	DependentsExpired int64 `json:"dependents_expired"`
}

// Gate authorizes scheduling operations and runs the daily subscription
// sweep.
type Gate struct {
	repo  Repository
	clock *clock.Service
}

func NewGate(repo Repository, clk *clock.Service) *Gate {
	return &Gate{repo: repo, clock: clk}
}

// Check returns the most recent active grant of the professional, or the
// no_scheduling_access business error when none is active.
func (g *Gate) Check(ctx context.Context, professionalID uint) (*models.SchedulingAccess, error) {
	grant, err := g.repo.LatestActiveGrant(ctx, professionalID, g.clock.Now())
	if err != nil {
		return nil, err
	}
	if grant == nil {
		return nil, httperr.ErrBusiness(httperr.CodeNoSchedulingAccess)
	}
	return grant, nil
}

// Sweep expires every subscription whose expiry date precedes the current
// local day. Idempotent: a second run on the same day touches nothing.
func (g *Gate) Sweep(ctx context.Context) (SweepResult, error) {
	startOfToday, err := g.clock.StartOfLocalDay(g.clock.TodayLocal())
	if err != nil {
		return SweepResult{}, err
	}

	members, dependents, err := g.repo.ExpireSubscriptions(ctx, startOfToday)
	if err != nil {
		return SweepResult{}, err
	}

	return SweepResult{
		MembersExpired:    members,
		DependentsExpired: dependents,
	}, nil
}
