package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIndex_KnownDates(t *testing.T) {
	// Epoch 2024-01-01 (lunes) => índice 0.
	if got := IndexAt(date(2024, time.January, 1)); got != 0 {
		t.Fatalf("expected index 0 for epoch day, got %d", got)
	}

	// 10 días después: elapsed=10, ciclo=10, semana B día 3 => índice 10.
	if got := IndexAt(date(2024, time.January, 11)); got != 10 {
		t.Fatalf("expected index 10 for 2024-01-11, got %d", got)
	}
}

func TestIndex_SamePositionEveryFortnight(t *testing.T) {
	base := date(2024, time.March, 7)
	want := IndexAt(base)

	for i := 1; i <= 5; i++ {
		later := base.AddDate(0, 0, 14*i)
		if got := IndexAt(later); got != want {
			t.Fatalf("date %s: expected index %d, got %d", later.Format("2006-01-02"), want, got)
		}
	}
}

func TestIndex_WeekHalfBoundary(t *testing.T) {
	// Dentro del ciclo el índice sube de a 1 por día, incluido el salto
	// de semana A a semana B (6 -> 7, no 6 -> 0).
	start := date(2024, time.January, 1)
	for i := 0; i < CycleDays; i++ {
		d := start.AddDate(0, 0, i)
		if got := IndexAt(d); got != i {
			t.Fatalf("day %d: expected index %d, got %d", i, i, got)
		}
	}

	// Día 14 vuelve al 0.
	if got := IndexAt(start.AddDate(0, 0, 14)); got != 0 {
		t.Fatalf("expected wrap to 0 on day 14, got %d", got)
	}
}

func TestIndex_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.January, 11, 6, 15, 0, 0, time.UTC)
	night := time.Date(2024, time.January, 11, 23, 59, 0, 0, time.UTC)

	if IndexAt(morning) != IndexAt(night) {
		t.Fatalf("index must depend on the date only")
	}
}

func TestIndex_BeforeEpochStaysInRange(t *testing.T) {
	for i := 1; i <= 30; i++ {
		d := Epoch.AddDate(0, 0, -i)
		got := IndexAt(d)
		if got < 0 || got >= CycleDays {
			t.Fatalf("date %s: index %d out of [0,%d)", d.Format("2006-01-02"), got, CycleDays)
		}
	}

	// 14 días antes del epoch cae en la misma posición que el epoch.
	if got := IndexAt(Epoch.AddDate(0, 0, -14)); got != 0 {
		t.Fatalf("expected index 0 fourteen days before epoch, got %d", got)
	}
}

func TestNewPlan_FortnightRequiresExactly14(t *testing.T) {
	short := make([]DayEntry, 10)
	for i := range short {
		short[i] = DayEntry{Morning: true, Evening: true}
	}

	// Largo 10 => malformado => fallback a dosis simples, sin consultar entradas.
	p := NewPlan(short, "1", "")
	if p.Kind != PlanUniform {
		t.Fatalf("expected uniform fallback for malformed plan, got kind %d", p.Kind)
	}
	if !p.DueAt(3, CategoryMorning) {
		t.Fatalf("fallback should use morning dosage")
	}
	if p.DueAt(3, CategoryEvening) {
		t.Fatalf("fallback should treat empty evening dosage as not due")
	}

	full := make([]DayEntry, CycleDays)
	if got := NewPlan(full, "2", "2"); got.Kind != PlanFortnight {
		t.Fatalf("expected fortnight plan for exactly 14 entries")
	}
}

func TestNewPlan_DosageParsing(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"2", 2},
		{" 1 ", 1},
		{"0", 0},
		{"", 0},
		{"dos", 0},
		{"-3", 0},
	}

	for _, tc := range cases {
		p := NewPlan(nil, tc.raw, tc.raw)
		if p.Morning != tc.want || p.Evening != tc.want {
			t.Fatalf("dosage %q: expected %d, got morning=%d evening=%d", tc.raw, tc.want, p.Morning, p.Evening)
		}
	}
}

func TestPlan_FortnightIgnoresSimpleDosages(t *testing.T) {
	// Plan explícito todo en falso: nunca toca, aunque el medicamento tenga
	// conteos simples distintos de cero (el plan manda).
	days := make([]DayEntry, CycleDays)
	p := NewPlan(days, "", "")
	p.Morning = 2 // simula datos sucios heredados
	p.Evening = 2

	for i := 0; i < CycleDays; i++ {
		if p.DueAt(i, CategoryMorning) || p.DueAt(i, CategoryEvening) {
			t.Fatalf("all-false fortnight plan must never be due (index %d)", i)
		}
	}
}

func TestPlan_UniformMorningOnly(t *testing.T) {
	p := NewPlan(nil, "2", "")

	if !p.DueOn(date(2024, time.January, 11), CategoryMorning) {
		t.Fatalf("morningDosage=2 must be due for morning")
	}
	if p.DueOn(date(2024, time.January, 11), CategoryEvening) {
		t.Fatalf("morningDosage=2 must not be due for evening")
	}
}

func TestPlan_FortnightAlternatingWeeks(t *testing.T) {
	// Semana A: tomas de mañana. Semana B: tomas de noche.
	days := make([]DayEntry, CycleDays)
	for i := 0; i < 7; i++ {
		days[i] = DayEntry{Morning: true}
		days[7+i] = DayEntry{Evening: true}
	}
	p := NewPlan(days, "", "")

	weekA := date(2024, time.January, 3)  // índice 2
	weekB := date(2024, time.January, 10) // índice 9

	if !p.DueOn(weekA, CategoryMorning) || p.DueOn(weekA, CategoryEvening) {
		t.Fatalf("week A should be morning-only")
	}
	if p.DueOn(weekB, CategoryMorning) || !p.DueOn(weekB, CategoryEvening) {
		t.Fatalf("week B should be evening-only")
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory(" Morning "); !ok || c != CategoryMorning {
		t.Fatalf("expected morning, got %q ok=%v", c, ok)
	}
	if _, ok := ParseCategory("noon"); ok {
		t.Fatalf("noon must not parse")
	}
}
