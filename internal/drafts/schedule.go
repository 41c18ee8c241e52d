package drafts

import (
	"strconv"
	"strings"
	"time"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Scheduler computes the next send slot for a restaurant. All results are
// absolute instants; wall-clock arithmetic happens in the restaurant's
// timezone and only the resulting instant leaves this package.
type Scheduler struct {
	defaultLocation *time.Location
	defaultSendHour int
	now             func() time.Time
}

// NewScheduler builds a scheduler with the fallback timezone and send hour
// used when a restaurant carries neither.
func NewScheduler(defaultTimezone string, defaultSendHour int) *Scheduler {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Scheduler{
		defaultLocation: loc,
		defaultSendHour: defaultSendHour,
		now:             time.Now,
	}
}

// NextScheduledTime resolves the next send slot. A precomputed NextRunAt on
// an active schedule wins outright; otherwise the weekly day mask plus
// time-of-day decides, defaulting to tomorrow when nothing is configured.
func (s *Scheduler) NextScheduledTime(schedule *models.Schedule, restaurant *models.Restaurant) time.Time {
	loc := s.locationFor(restaurant)
	now := s.now().In(loc)

	if schedule == nil || !schedule.Active {
		return tomorrowAt(now, s.defaultSendHour, 0)
	}
	if schedule.NextRunAt != nil {
		return *schedule.NextRunAt
	}

	hour, minute := parseSendTime(schedule.SendTime, s.defaultSendHour)

	activeDays := map[time.Weekday]bool{}
	for _, day := range schedule.Days {
		if weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]; ok {
			activeDays[weekday] = true
		}
	}
	if len(activeDays) == 0 {
		return tomorrowAt(now, hour, minute)
	}

	todaySlot := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if activeDays[now.Weekday()] && now.Before(todaySlot) {
		return todaySlot
	}
	for offset := 1; offset <= 7; offset++ {
		candidate := todaySlot.AddDate(0, 0, offset)
		if activeDays[candidate.Weekday()] {
			return candidate
		}
	}
	return tomorrowAt(now, hour, minute)
}

func (s *Scheduler) locationFor(restaurant *models.Restaurant) *time.Location {
	if restaurant != nil && restaurant.TimeZone != "" {
		if loc, err := time.LoadLocation(restaurant.TimeZone); err == nil {
			return loc
		}
	}
	return s.defaultLocation
}

// parseSendTime reads "HH:MM"; malformed values fall back to the default hour.
func parseSendTime(value string, defaultHour int) (int, int) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return defaultHour, 0
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return defaultHour, 0
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return hour, 0
	}
	return hour, minute
}

func tomorrowAt(now time.Time, hour, minute int) time.Time {
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, minute, 0, 0, now.Location())
}
