package period_test

import (
	"testing"
	"time"

	"github.com/warp/period-engine/period"
)

func TestSpec_DurationWrapsModuloFullDay(t *testing.T) {
	cases := []struct {
		name string
		in   int64
		want int64
	}{
		{"plain hour", 3600, 3600},
		{"full day wraps to zero", 86400, 0},
		{"day plus hour wraps to hour", 86400 + 3600, 3600},
		{"two days wrap to zero", 2 * 86400, 0},
		{"negative stays negative", -3600, -3600},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := period.NewSpec(testUser())
			s.SetDuration(tc.in)
			if got := s.Duration(); got != tc.want {
				t.Errorf("SetDuration(%d): got %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestSpec_EveryWeekdaySelectedByDefault(t *testing.T) {
	s := period.NewSpec(testUser())
	for d := 0; d < 7; d++ {
		if !s.Weekday(d) {
			t.Errorf("weekday %d not selected on a fresh spec", d)
		}
	}
}

func TestSpec_WeekdayIndexWraps(t *testing.T) {
	s := period.NewSpec(testUser())
	s.SetWeekday(time.Sunday, false)

	// 7 and -7 both alias Sunday.
	if s.Weekday(7) {
		t.Error("Weekday(7) should alias Sunday")
	}
	if s.Weekday(-7) {
		t.Error("Weekday(-7) should alias Sunday")
	}
	if !s.Weekday(1) {
		t.Error("Monday should still be selected")
	}
}

func TestSpec_DateRangeDropsTimeOfDay(t *testing.T) {
	s := period.NewSpec(testUser())
	s.SetDateRange(
		time.Date(2024, time.June, 10, 13, 45, 12, 0, time.UTC),
		time.Date(2024, time.June, 14, 1, 2, 3, 0, time.UTC),
	)

	if got, want := s.Begin(), date(2024, time.June, 10); !got.Equal(want) {
		t.Errorf("Begin: got %v, want %v", got, want)
	}
	if got, want := s.End(), date(2024, time.June, 14); !got.Equal(want) {
		t.Errorf("End: got %v, want %v", got, want)
	}
}

func TestSpec_BeginOnAndEndOnUseDailyPattern(t *testing.T) {
	s := period.NewSpec(testUser())
	s.SetBeginTime(9, 30)
	s.SetDuration(2 * 3600)

	day := date(2024, time.June, 10)
	begin := s.BeginOn(day)
	end := s.EndOn(day)

	if want := time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC); !begin.Equal(want) {
		t.Errorf("BeginOn: got %v, want %v", begin, want)
	}
	if want := time.Date(2024, time.June, 10, 11, 30, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("EndOn: got %v, want %v", end, want)
	}
}
