package schedule

import (
	"errors"
	"math"
	"testing"
	"time"

	domainLoan "microfin-ledger/internal/domain/loan"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuild_DailyRemainderScenario(t *testing.T) {
	// 10000 over 23 daily installments at 15% per installment.
	plan, err := Build(Input{
		Principal:        10000,
		Frequency:        domainLoan.FrequencyDaily,
		Count:            23,
		DisbursementDate: date(2025, time.March, 3), // a Monday
		InterestRate:     0.15,
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(plan) != 23 {
		t.Fatalf("len = %d, want 23", len(plan))
	}
	for i := 0; i < 22; i++ {
		if plan[i].ScheduledPrincipal != 434.78 {
			t.Fatalf("installment %d principal = %v, want 434.78", i+1, plan[i].ScheduledPrincipal)
		}
	}
	if got := plan[22].ScheduledPrincipal; got != 434.84 {
		t.Fatalf("last principal = %v, want 434.84", got)
	}
	// interest = principal × 0.15, rounded
	if got := plan[0].ScheduledInterest; got != 65.22 {
		t.Fatalf("installment 1 interest = %v, want 65.22", got)
	}
	if got := plan[22].ScheduledInterest; got != 65.23 {
		t.Fatalf("last interest = %v, want 65.23", got)
	}
}

func TestBuild_PrincipalSumsExactly(t *testing.T) {
	cases := []struct {
		principal float64
		count     int
	}{
		{10000, 23},
		{100, 3},
		{999.99, 7},
		{1_000_000, 13},
		{50.01, 6},
	}
	for _, tc := range cases {
		plan, err := Build(Input{
			Principal:        tc.principal,
			Frequency:        domainLoan.FrequencyWeekly,
			Count:            tc.count,
			DisbursementDate: date(2025, time.June, 2),
			InterestRate:     0.1,
		})
		if err != nil {
			t.Fatalf("Build(%v/%d): %v", tc.principal, tc.count, err)
		}
		var sum float64
		for _, inst := range plan {
			sum = math.Round((sum+inst.ScheduledPrincipal)*100) / 100
		}
		if sum != tc.principal {
			t.Fatalf("Build(%v/%d): Σ principal = %v, want exact", tc.principal, tc.count, sum)
		}
	}
}

func TestBuild_NoWeekendDueDates(t *testing.T) {
	for _, freq := range []domainLoan.Frequency{
		domainLoan.FrequencyDaily, domainLoan.FrequencyWeekly, domainLoan.FrequencyMonthly,
	} {
		plan, err := Build(Input{
			Principal:        5000,
			Frequency:        freq,
			Count:            30,
			DisbursementDate: date(2025, time.January, 3), // a Friday
			InterestRate:     0.05,
		})
		if err != nil {
			t.Fatalf("Build(%s): %v", freq, err)
		}
		for _, inst := range plan {
			wd := inst.DueDate.Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				t.Fatalf("freq %s: installment %d due on %s (%s)", freq, inst.Seq, wd, inst.DueDate.Format("2006-01-02"))
			}
		}
	}
}

func TestBuild_FirstDueDateSteps(t *testing.T) {
	// Disbursed Monday 2025-03-03: daily → Wednesday 03-05, weekly → Monday
	// 03-10, monthly → Thursday 04-03.
	cases := []struct {
		freq domainLoan.Frequency
		want time.Time
	}{
		{domainLoan.FrequencyDaily, date(2025, time.March, 5)},
		{domainLoan.FrequencyWeekly, date(2025, time.March, 10)},
		{domainLoan.FrequencyMonthly, date(2025, time.April, 3)},
	}
	for _, tc := range cases {
		plan, err := Build(Input{
			Principal:        1000,
			Frequency:        tc.freq,
			Count:            1,
			DisbursementDate: date(2025, time.March, 3),
			InterestRate:     0,
		})
		if err != nil {
			t.Fatalf("Build(%s): %v", tc.freq, err)
		}
		if !plan[0].DueDate.Equal(tc.want) {
			t.Fatalf("freq %s: first due = %s, want %s", tc.freq,
				plan[0].DueDate.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestBuild_SaturdayShiftsToMonday(t *testing.T) {
	// Thursday 2025-03-06 + 2 days = Saturday 03-08 → Monday 03-10.
	plan, err := Build(Input{
		Principal:        100,
		Frequency:        domainLoan.FrequencyDaily,
		Count:            1,
		DisbursementDate: date(2025, time.March, 6),
		InterestRate:     0,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := date(2025, time.March, 10); !plan[0].DueDate.Equal(want) {
		t.Fatalf("due = %s, want %s", plan[0].DueDate.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestBuild_SubsequentStepsFromAdjustedDate(t *testing.T) {
	// After shifting to Monday, the next daily step is Monday+2, not Sat+2.
	plan, err := Build(Input{
		Principal:        100,
		Frequency:        domainLoan.FrequencyDaily,
		Count:            2,
		DisbursementDate: date(2025, time.March, 6),
		InterestRate:     0,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := date(2025, time.March, 12); !plan[1].DueDate.Equal(want) {
		t.Fatalf("second due = %s, want %s", plan[1].DueDate.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	base := Input{
		Principal:        1000,
		Frequency:        domainLoan.FrequencyWeekly,
		Count:            4,
		DisbursementDate: date(2025, time.May, 5),
		InterestRate:     0.1,
	}

	cases := map[string]func(Input) Input{
		"zero count":        func(in Input) Input { in.Count = 0; return in },
		"negative count":    func(in Input) Input { in.Count = -3; return in },
		"zero principal":    func(in Input) Input { in.Principal = 0; return in },
		"negative rate":     func(in Input) Input { in.InterestRate = -0.1; return in },
		"unknown frequency": func(in Input) Input { in.Frequency = "fortnightly"; return in },
	}
	for name, mutate := range cases {
		plan, err := Build(mutate(base))
		if !errors.Is(err, domainLoan.ErrInvalidScheduleInput) {
			t.Fatalf("%s: err = %v, want ErrInvalidScheduleInput", name, err)
		}
		if plan != nil {
			t.Fatalf("%s: expected no schedule, got %d installments", name, len(plan))
		}
	}
}
