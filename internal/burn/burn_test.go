package burn

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	layout := time.RFC3339
	if len(s) == len("2006-01-02") {
		layout = "2006-01-02"
	}
	ts, err := time.Parse(layout, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func secs(n int64) *int64 { return &n }

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestResolveDuration_FromTimestamps(t *testing.T) {
	e := model.TimeEntry{
		StartTime: mustTime(t, "2024-01-15T10:00:00Z"),
		EndTime:   mustTime(t, "2024-01-15T11:30:00Z"),
	}
	got, err := ResolveDuration(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5400 {
		t.Errorf("ResolveDuration = %v, want 5400", got)
	}
}

func TestResolveDuration_ExplicitWins(t *testing.T) {
	e := model.TimeEntry{
		StartTime:    mustTime(t, "2024-01-15T10:00:00Z"),
		EndTime:      mustTime(t, "2024-01-15T11:00:00Z"),
		DurationSecs: secs(120),
	}
	got, err := ResolveDuration(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 120 {
		t.Errorf("ResolveDuration = %v, want 120 (explicit)", got)
	}
}

func TestResolveDuration_NegativeExplicitFallsBack(t *testing.T) {
	e := model.TimeEntry{
		StartTime:    mustTime(t, "2024-01-15T10:00:00Z"),
		EndTime:      mustTime(t, "2024-01-15T10:01:00Z"),
		DurationSecs: secs(-5),
	}
	got, err := ResolveDuration(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("ResolveDuration = %v, want 60", got)
	}
}

func TestResolveDuration_Negative(t *testing.T) {
	e := model.TimeEntry{
		ID:         7,
		ContractID: 3,
		StartTime:  mustTime(t, "2024-01-15T11:00:00Z"),
		EndTime:    mustTime(t, "2024-01-15T10:00:00Z"),
	}
	_, err := ResolveDuration(e)
	if !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("err = %v, want ErrInvalidEntry", err)
	}
	var ie *InvalidEntryError
	if !errors.As(err, &ie) {
		t.Fatalf("err is %T, want *InvalidEntryError", err)
	}
	if ie.EntryID != 7 || ie.ContractID != 3 {
		t.Errorf("InvalidEntryError = %+v, want entry 7 contract 3", ie)
	}
	if ie.Seconds != -3600 {
		t.Errorf("Seconds = %v, want -3600", ie.Seconds)
	}
}

func TestConsumedHours_FiltersAndSums(t *testing.T) {
	entries := []model.TimeEntry{
		{ContractID: 1, DurationSecs: secs(3600)},
		{ContractID: 2, DurationSecs: secs(99999)},
		{ContractID: 1, StartTime: mustTime(t, "2024-01-02T09:00:00Z"), EndTime: mustTime(t, "2024-01-02T09:30:00Z")},
	}
	got, err := ConsumedHours(1, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1.5 {
		t.Errorf("ConsumedHours = %v, want 1.5", got)
	}
}

func TestConsumedHours_Empty(t *testing.T) {
	got, err := ConsumedHours(1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("ConsumedHours = %v, want 0", got)
	}
}

func TestConsumedHours_IgnoresInvalidEntryOfOtherContract(t *testing.T) {
	entries := []model.TimeEntry{
		{ContractID: 1, DurationSecs: secs(1800)},
		{ContractID: 2, StartTime: mustTime(t, "2024-01-02T10:00:00Z"), EndTime: mustTime(t, "2024-01-02T09:00:00Z")},
	}
	got, err := ConsumedHours(1, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.5 {
		t.Errorf("ConsumedHours = %v, want 0.5", got)
	}
}

func TestConsumedHours_OrderIndependent(t *testing.T) {
	base := mustTime(t, "2024-03-01T08:00:00Z")
	rng := rand.New(rand.NewSource(42))

	var entries []model.TimeEntry
	var wantSecs int64
	for i := 0; i < 200; i++ {
		start := base.Add(time.Duration(rng.Intn(10_000)) * time.Minute)
		d := time.Duration(rng.Intn(4*3600)) * time.Second
		entries = append(entries, model.TimeEntry{ContractID: 9, StartTime: start, EndTime: start.Add(d)})
		wantSecs += int64(d / time.Second)
	}
	want := float64(wantSecs) / 3600

	for round := 0; round < 5; round++ {
		rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		got, err := ConsumedHours(9, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("round %d: ConsumedHours = %v, want %v", round, got, want)
		}
	}
}

func TestPartition(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: 1, ContractID: 1, DurationSecs: secs(3600)},
		{ID: 2, ContractID: 1, StartTime: mustTime(t, "2024-01-02T10:00:00Z"), EndTime: mustTime(t, "2024-01-02T09:00:00Z")},
		{ID: 3, ContractID: 2, DurationSecs: secs(3600)},
	}
	valid, rejected := Partition(1, entries)
	if len(valid) != 1 || valid[0].ID != 1 {
		t.Errorf("valid = %+v, want only entry 1", valid)
	}
	if len(rejected) != 1 || rejected[0].EntryID != 2 {
		t.Errorf("rejected = %+v, want only entry 2", rejected)
	}
}

func TestBudget_ProgressAlwaysInRange(t *testing.T) {
	totals := []float64{0, 0.5, 1, 10, 160, 1000}
	consumed := []float64{0, 0.1, 1, 9.99, 10, 160, 5000}
	for _, total := range totals {
		for _, c := range consumed {
			st := Budget(total, c)
			if st.ProgressPercent < 0 || st.ProgressPercent > 100 {
				t.Errorf("Budget(%v, %v).ProgressPercent = %v, want within [0,100]", total, c, st.ProgressPercent)
			}
			if st.RemainingHours != total-c {
				t.Errorf("Budget(%v, %v).RemainingHours = %v, want %v", total, c, st.RemainingHours, total-c)
			}
		}
	}
}

func TestBudget_ZeroTotal(t *testing.T) {
	if got := Budget(0, 0).ProgressPercent; got != 0 {
		t.Errorf("Budget(0, 0).ProgressPercent = %v, want 0", got)
	}
	st := Budget(0, 2)
	if st.ProgressPercent != 100 {
		t.Errorf("Budget(0, 2).ProgressPercent = %v, want 100", st.ProgressPercent)
	}
	if st.RemainingHours != -2 {
		t.Errorf("Budget(0, 2).RemainingHours = %v, want -2", st.RemainingHours)
	}
}

func TestWindow_ElapsedFloor(t *testing.T) {
	start := mustTime(t, "2024-06-01")
	end := mustTime(t, "2024-12-01")

	before := Window(start, end, mustTime(t, "2024-05-01"))
	if before.ElapsedMonths != MinElapsedMonths {
		t.Errorf("not started: ElapsedMonths = %v, want %v", before.ElapsedMonths, MinElapsedMonths)
	}
	if !before.NotStarted {
		t.Error("not started: NotStarted = false, want true")
	}

	early := Window(start, end, mustTime(t, "2024-06-03"))
	if early.ElapsedMonths != MinElapsedMonths {
		t.Errorf("two days in: ElapsedMonths = %v, want %v", early.ElapsedMonths, MinElapsedMonths)
	}

	later := Window(start, end, mustTime(t, "2024-07-31"))
	want := 60 / DaysPerMonth
	if !approx(later.ElapsedMonths, want, 1e-9) {
		t.Errorf("60 days in: ElapsedMonths = %v, want %v", later.ElapsedMonths, want)
	}
}

func TestWindow_DaysRemaining(t *testing.T) {
	start := mustTime(t, "2024-01-01")
	end := mustTime(t, "2024-01-31")

	tests := []struct {
		now  string
		want int
	}{
		{"2024-01-16T00:00:00Z", 15},
		{"2024-01-30T12:00:00Z", 1},
		{"2024-01-31T00:00:00Z", 0},
		{"2024-03-01T00:00:00Z", 0},
		{"2023-12-31T00:00:00Z", 31},
	}
	for _, tt := range tests {
		got := Window(start, end, mustTime(t, tt.now)).DaysRemaining
		if got != tt.want {
			t.Errorf("DaysRemaining at %s = %d, want %d", tt.now, got, tt.want)
		}
	}
}

func TestProject_OverBudgetBoundary(t *testing.T) {
	w := model.WindowStatus{ElapsedMonths: 1, TotalMonths: 1}
	total := 10.0
	threshold := total * OverBudgetTolerance

	at := Project(threshold, total, w)
	if at.IsOverBudget {
		t.Errorf("actual == ideal*%v flagged over budget (actual=%v ideal=%v)",
			OverBudgetTolerance, at.ActualBurnRate, at.IdealMonthlyBurn)
	}

	above := Project(math.Nextafter(threshold, math.Inf(1)), total, w)
	if !above.IsOverBudget {
		t.Errorf("actual just above ideal*%v not flagged", OverBudgetTolerance)
	}
}

func TestProject_DegenerateWindow(t *testing.T) {
	r := Project(5, 40, model.WindowStatus{ElapsedMonths: 2, TotalMonths: 0})
	if r.IdealMonthlyBurn != 40 {
		t.Errorf("IdealMonthlyBurn = %v, want 40", r.IdealMonthlyBurn)
	}
	if math.IsNaN(r.ActualBurnRate) || math.IsInf(r.ActualBurnRate, 0) {
		t.Errorf("ActualBurnRate = %v, want finite", r.ActualBurnRate)
	}
}

func TestBuildReport_ScenarioA(t *testing.T) {
	c := model.Contract{
		ID:          1,
		CompanyName: "Ademicon",
		Title:       "Ademicon - Support",
		TotalHours:  160,
		StartDate:   mustTime(t, "2024-01-01"),
		EndDate:     mustTime(t, "2024-01-31"),
	}
	entries := []model.TimeEntry{{
		ContractID: 1,
		StartTime:  mustTime(t, "2024-01-15T10:00:00Z"),
		EndTime:    mustTime(t, "2024-01-15T11:00:00Z"),
	}}

	r, err := BuildReport(c, entries, mustTime(t, "2024-01-16"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.ConsumedHours != 1 {
		t.Errorf("ConsumedHours = %v, want 1", r.ConsumedHours)
	}
	if r.RemainingHours != 159 {
		t.Errorf("RemainingHours = %v, want 159", r.RemainingHours)
	}
	if !approx(r.ProgressPercent, 0.625, 1e-9) {
		t.Errorf("ProgressPercent = %v, want 0.625", r.ProgressPercent)
	}
	if r.ActualBurnRate != 2.0 {
		t.Errorf("ActualBurnRate = %v, want 2.0", r.ActualBurnRate)
	}
	if !approx(r.IdealMonthlyBurn, 162.4, 0.1) {
		t.Errorf("IdealMonthlyBurn = %v, want ~162.4", r.IdealMonthlyBurn)
	}
	if r.IsOverBudget {
		t.Error("IsOverBudget = true, want false")
	}
	if r.DaysRemaining != 15 {
		t.Errorf("DaysRemaining = %d, want 15", r.DaysRemaining)
	}
	if r.ContractTitle != "Ademicon - Support" || r.CompanyName != "Ademicon" {
		t.Errorf("identity = %q/%q, want pass-through", r.ContractTitle, r.CompanyName)
	}
}

func TestBuildReport_ScenarioB(t *testing.T) {
	c := model.Contract{
		ID:         2,
		TotalHours: 10,
		StartDate:  mustTime(t, "2023-01-01"),
		EndDate:    mustTime(t, "2023-06-30"),
	}
	entries := []model.TimeEntry{
		{ContractID: 2, DurationSecs: secs(7200)},
		{ContractID: 2, DurationSecs: secs(21600)},
	}

	r, err := BuildReport(c, entries, mustTime(t, "2024-01-16"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ConsumedHours != 8 {
		t.Errorf("ConsumedHours = %v, want 8", r.ConsumedHours)
	}
	if r.RemainingHours != 2 {
		t.Errorf("RemainingHours = %v, want 2", r.RemainingHours)
	}
	if !approx(r.ProgressPercent, 80, 1e-9) {
		t.Errorf("ProgressPercent = %v, want 80", r.ProgressPercent)
	}
	if r.DaysRemaining != 0 {
		t.Errorf("DaysRemaining = %d, want 0", r.DaysRemaining)
	}
}

func TestBuildReport_ScenarioC(t *testing.T) {
	c := model.Contract{
		ID:         3,
		TotalHours: 0,
		StartDate:  mustTime(t, "2024-01-01"),
		EndDate:    mustTime(t, "2024-03-01"),
	}
	entries := []model.TimeEntry{{ContractID: 3, DurationSecs: secs(3600)}}

	r, err := BuildReport(c, entries, mustTime(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ProgressPercent != 100 {
		t.Errorf("ProgressPercent = %v, want 100", r.ProgressPercent)
	}
	if r.RemainingHours != -1 {
		t.Errorf("RemainingHours = %v, want -1", r.RemainingHours)
	}
	if !r.ZeroBudget() {
		t.Error("ZeroBudget() = false, want true")
	}
}

func TestBuildReport_ScenarioD(t *testing.T) {
	day := mustTime(t, "2024-01-01")
	c := model.Contract{ID: 4, TotalHours: 40, StartDate: day, EndDate: day}

	r, err := BuildReport(c, nil, mustTime(t, "2024-01-20"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IdealMonthlyBurn != 40 {
		t.Errorf("IdealMonthlyBurn = %v, want 40", r.IdealMonthlyBurn)
	}
	if r.DaysRemaining != 0 {
		t.Errorf("DaysRemaining = %d, want 0", r.DaysRemaining)
	}
	if !r.DegenerateWindow() {
		t.Error("DegenerateWindow() = false, want true")
	}
}

func TestBuildReport_Idempotent(t *testing.T) {
	c := model.Contract{
		ID:         5,
		TotalHours: 120,
		StartDate:  mustTime(t, "2024-01-01"),
		EndDate:    mustTime(t, "2024-12-31"),
	}
	entries := []model.TimeEntry{
		{ContractID: 5, StartTime: mustTime(t, "2024-02-01T09:00:00Z"), EndTime: mustTime(t, "2024-02-01T17:15:00Z")},
		{ContractID: 5, DurationSecs: secs(4321)},
	}
	now := mustTime(t, "2024-04-10T13:00:00Z")

	r1, err := BuildReport(c, entries, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := BuildReport(c, entries, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1 != r2 {
		t.Errorf("reports differ:\n%+v\n%+v", r1, r2)
	}
}

func TestBuildReport_InvalidEntryFails(t *testing.T) {
	c := model.Contract{ID: 6, TotalHours: 10, StartDate: mustTime(t, "2024-01-01"), EndDate: mustTime(t, "2024-02-01")}
	entries := []model.TimeEntry{
		{ID: 11, ContractID: 6, StartTime: mustTime(t, "2024-01-05T10:00:00Z"), EndTime: mustTime(t, "2024-01-05T09:00:00Z")},
	}
	_, err := BuildReport(c, entries, mustTime(t, "2024-01-10"))
	if !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("err = %v, want ErrInvalidEntry", err)
	}

	r, rejected := BuildReportSkipping(c, entries, mustTime(t, "2024-01-10"))
	if len(rejected) != 1 || rejected[0].EntryID != 11 {
		t.Errorf("rejected = %+v, want entry 11", rejected)
	}
	if r.ConsumedHours != 0 {
		t.Errorf("ConsumedHours = %v, want 0 after skipping", r.ConsumedHours)
	}
}

func TestBuildReports_SharedNow(t *testing.T) {
	now := mustTime(t, "2024-05-01")
	contracts := []model.Contract{
		{ID: 1, TotalHours: 10, StartDate: mustTime(t, "2024-01-01"), EndDate: mustTime(t, "2024-12-31")},
		{ID: 2, TotalHours: 10, StartDate: mustTime(t, "2024-01-01"), EndDate: mustTime(t, "2024-12-31")},
	}
	entries := []model.TimeEntry{
		{ContractID: 1, DurationSecs: secs(3600)},
		{ID: 9, ContractID: 2, StartTime: mustTime(t, "2024-02-01T10:00:00Z"), EndTime: mustTime(t, "2024-02-01T09:00:00Z")},
	}

	reports, errs := BuildReports(contracts, entries, now)
	if len(reports) != 1 || reports[0].ContractID != 1 {
		t.Fatalf("reports = %+v, want only contract 1", reports)
	}
	if !reports[0].GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", reports[0].GeneratedAt, now)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidEntry) {
		t.Errorf("errs = %v, want one ErrInvalidEntry", errs)
	}
}

func TestAssemble_FiniteRates(t *testing.T) {
	now := mustTime(t, "2024-01-01")
	windows := [][2]string{
		{"2024-01-01", "2024-01-01"},
		{"2024-01-01", "2024-01-02"},
		{"2025-01-01", "2026-01-01"},
		{"2020-01-01", "2021-01-01"},
	}
	for _, w := range windows {
		c := model.Contract{ID: 1, TotalHours: 100, StartDate: mustTime(t, w[0]), EndDate: mustTime(t, w[1])}
		r := Assemble(c, 37.5, now)
		for name, v := range map[string]float64{"ideal": r.IdealMonthlyBurn, "actual": r.ActualBurnRate} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("window %v: %s rate = %v, want finite", w, name, v)
			}
		}
	}
}
