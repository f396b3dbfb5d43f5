package timesheet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DEFAULT COLLABORATORS - In-process implementations for simple deployments
// =============================================================================

// WeekdayCalendar treats Monday through Friday as working days for everyone.
type WeekdayCalendar struct{}

func (WeekdayCalendar) IsWorkDay(user UserID, date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Sunday && wd != time.Saturday
}

// AllowAllPermissions grants every capability.
type AllowAllPermissions struct{}

func (AllowAllPermissions) IsGranted(capability string, scope string) bool { return true }

// StaticPermissions grants exactly the listed "capability:scope" pairs.
type StaticPermissions struct {
	Granted map[string]bool
}

func (p StaticPermissions) IsGranted(capability string, scope string) bool {
	return p.Granted[capability+":"+scope]
}

// DefaultRateCalculator applies the entry's own overrides: a fixed rate wins,
// then the hourly rate prorated by duration, otherwise zero.
type DefaultRateCalculator struct{}

func (DefaultRateCalculator) Calculate(entry *Entry) decimal.Decimal {
	if fixed, ok := entry.FixedRate.Get(); ok {
		return fixed
	}
	if hourly, ok := entry.HourlyRate.Get(); ok {
		hours := decimal.NewFromInt(entry.Duration).Div(decimal.NewFromInt(3600))
		return hourly.Mul(hours)
	}
	return decimal.Zero
}

// MemoryCatalog is a map-backed Catalog.
type MemoryCatalog struct {
	Users      map[UserID]*User
	Projects   map[ProjectID]*Project
	Activities map[ActivityID]*Activity
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		Users:      make(map[UserID]*User),
		Projects:   make(map[ProjectID]*Project),
		Activities: make(map[ActivityID]*Activity),
	}
}

func (c *MemoryCatalog) UserByID(id UserID) (*User, bool) {
	u, ok := c.Users[id]
	return u, ok
}

func (c *MemoryCatalog) ProjectByID(id ProjectID) (*Project, bool) {
	p, ok := c.Projects[id]
	return p, ok
}

func (c *MemoryCatalog) ActivityByID(id ActivityID) (*Activity, bool) {
	a, ok := c.Activities[id]
	return a, ok
}

// PlainFormatter renders money as "1234.50 EUR" and durations as "H:MM".
type PlainFormatter struct{}

func (PlainFormatter) Money(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

func (PlainFormatter) Duration(seconds int64) string {
	neg := ""
	if seconds < 0 {
		neg = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", neg, seconds/3600, (seconds%3600)/60)
}
