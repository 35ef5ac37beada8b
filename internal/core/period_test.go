package core_test

import (
	"testing"
	"time"

	"finboard/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod_Presets(t *testing.T) {
	// Mid-afternoon clock to prove day truncation.
	now := time.Date(2024, time.March, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name      string
		preset    core.PeriodPreset
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"next 30 days", core.PresetNext30Days, date(2024, time.March, 15), date(2024, time.April, 14)},
		{"next 60 days", core.PresetNext60Days, date(2024, time.March, 15), date(2024, time.May, 14)},
		{"next 90 days", core.PresetNext90Days, date(2024, time.March, 15), date(2024, time.June, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := core.ResolvePeriod(core.PeriodQuery{Preset: tt.preset}, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !p.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", p.Start, tt.wantStart)
			}
			if p.End.Year() != tt.wantEnd.Year() || p.End.Month() != tt.wantEnd.Month() || p.End.Day() != tt.wantEnd.Day() {
				t.Errorf("end day = %v, want %v", p.End, tt.wantEnd)
			}
			if p.End.Hour() != 23 || p.End.Minute() != 59 || p.End.Second() != 59 {
				t.Errorf("end is not extended to end of day: %v", p.End)
			}
		})
	}
}

func TestResolvePeriod_Deterministic(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	q := core.PeriodQuery{Preset: core.PresetNext30Days}

	first, err := core.ResolvePeriod(q, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := core.ResolvePeriod(q, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Start.Equal(second.Start) || !first.End.Equal(second.End) || first.Label != second.Label {
		t.Errorf("same query and clock produced different periods: %+v vs %+v", first, second)
	}
}

func TestResolvePeriod_AllTime(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	t.Run("with observed bounds", func(t *testing.T) {
		min := date(2023, time.June, 1)
		max := date(2025, time.January, 10)
		p, err := core.ResolvePeriod(core.PeriodQuery{
			Preset: core.PresetAllTime, MinDate: &min, MaxDate: &max,
		}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.Start.Equal(min) {
			t.Errorf("start = %v, want observed min %v", p.Start, min)
		}
		if p.End.Day() != 10 || p.End.Month() != time.January || p.End.Year() != 2025 {
			t.Errorf("end = %v, want observed max day", p.End)
		}
	})

	t.Run("no data falls back to fixed window", func(t *testing.T) {
		p, err := core.ResolvePeriod(core.PeriodQuery{Preset: core.PresetAllTime}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.Start.Equal(date(2023, time.December, 15)) {
			t.Errorf("start = %v, want 3 months back", p.Start)
		}
		if p.End.Year() != 2025 || p.End.Month() != time.March || p.End.Day() != 15 {
			t.Errorf("end = %v, want 12 months forward", p.End)
		}
	})
}

func TestResolvePeriod_CustomRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	t.Run("valid range", func(t *testing.T) {
		from, to := date(2024, time.January, 1), date(2024, time.January, 31)
		p, err := core.ResolvePeriod(core.PeriodQuery{From: &from, To: &to}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.Start.Equal(from) {
			t.Errorf("start = %v, want %v", p.Start, from)
		}
		if p.Label != "Jan 1, 2024 to Jan 31, 2024" {
			t.Errorf("label = %q", p.Label)
		}
	})

	t.Run("start after end rejected", func(t *testing.T) {
		from, to := date(2024, time.February, 1), date(2024, time.January, 1)
		_, err := core.ResolvePeriod(core.PeriodQuery{From: &from, To: &to}, now)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("missing to rejected", func(t *testing.T) {
		from := date(2024, time.January, 1)
		_, err := core.ResolvePeriod(core.PeriodQuery{From: &from}, now)
		if !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("same day allowed", func(t *testing.T) {
		day := date(2024, time.January, 1)
		p, err := core.ResolvePeriod(core.PeriodQuery{From: &day, To: &day}, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.End.After(p.Start) {
			t.Errorf("single-day period should span the whole day: %+v", p)
		}
	})
}

func TestResolvePeriod_UnknownPreset(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	_, err := core.ResolvePeriod(core.PeriodQuery{Preset: "last_year"}, now)
	if !core.IsValidation(err) {
		t.Errorf("expected validation error for unknown preset, got %v", err)
	}

	_, err = core.ResolvePeriod(core.PeriodQuery{}, now)
	if !core.IsValidation(err) {
		t.Errorf("expected validation error for empty selection, got %v", err)
	}
}
