package scheduler

import (
	"fmt"
	"time"
	_ "time/tzdata" // America/New_York без системной базы часовых поясов

	"github.com/robfig/cron/v3"
)

const (
	// UnlockSpec — задачи открываются в полночь с 1 по 25 декабря.
	UnlockSpec = "0 0 1-25 12 *"

	// UnlockTimezone — часовой пояс открытия задач.
	UnlockTimezone = "America/New_York"
)

// cronParser — парсер cron-выражений.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// UnlockLocation возвращает часовой пояс открытия задач.
func UnlockLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(UnlockTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", UnlockTimezone, err)
	}
	return loc, nil
}

// NextUnlock возвращает ближайшее открытие задачи строго после from и номер дня.
// Время возвращается в UTC.
func NextUnlock(from time.Time) (time.Time, int, error) {
	loc, err := UnlockLocation()
	if err != nil {
		return time.Time{}, 0, err
	}

	schedule, err := cronParser.Parse(UnlockSpec)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parse cron expression %q: %w", UnlockSpec, err)
	}

	next := schedule.Next(from.In(loc))
	return next.UTC(), next.Day(), nil
}

// UnlockDay возвращает номер дня, открытого в момент at, или 0 вне декабрьских дней.
func UnlockDay(at time.Time) (int, error) {
	loc, err := UnlockLocation()
	if err != nil {
		return 0, err
	}

	local := at.In(loc)
	if local.Month() != time.December || local.Day() > 25 {
		return 0, nil
	}
	return local.Day(), nil
}

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	_, err := cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}
