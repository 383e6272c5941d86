package clock

import (
	"fmt"
	"time"

	"github.com/quiroferreira/clinic-scheduler/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Clock is the injectable source of "now".
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Service converts between the clinic's fixed local zone and UTC.
// The clinic zone has no DST; the host zone is never consulted.
type Service struct {
	clock Clock
	loc   *time.Location
}

func NewService(c Clock, offsetMinutes int) *Service {
	name := fmt.Sprintf("UTC%+03d:%02d", offsetMinutes/60, abs(offsetMinutes%60))
	return &Service{
		clock: c,
		loc:   time.FixedZone(name, offsetMinutes*60),
	}
}

func (s *Service) Now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// ToUTC interprets a local "2006-01-02" + "15:04" pair in the clinic zone.
func (s *Service) ToUTC(dateStr, timeStr string) (time.Time, error) {
	t, err := time.ParseInLocation(
		DateLayout+" "+TimeLayout,
		dateStr+" "+timeStr,
		s.loc,
	)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	return t.UTC(), nil
}

// ToLocal is the inverse of ToUTC.
func (s *Service) ToLocal(instant time.Time) (dateStr, timeStr string) {
	local := instant.In(s.loc)
	return local.Format(DateLayout), local.Format(TimeLayout)
}

// TodayLocal returns the clinic-zone date of Now.
func (s *Service) TodayLocal() string {
	d, _ := s.ToLocal(s.Now())
	return d
}

// StartOfLocalDay returns the UTC instant of local midnight for dateStr.
func (s *Service) StartOfLocalDay(dateStr string) (time.Time, error) {
	return s.ToUTC(dateStr, "00:00")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
