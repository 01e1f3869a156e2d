package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "hburn.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		t.Fatalf("bad date %q: %v", v, err)
	}
	return d
}

func seedContract(t *testing.T, s *Store) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	companyID, err := s.AddCompany(ctx, model.Company{Name: "Acme", CNPJ: "12.345.678/0001-90"})
	if err != nil {
		t.Fatalf("AddCompany: %v", err)
	}
	contractID, err := s.AddContract(ctx, model.Contract{
		CompanyID:    companyID,
		ContractType: "Support",
		TotalHours:   100,
		StartDate:    day(t, "2024-01-01"),
		EndDate:      day(t, "2024-12-31"),
	})
	if err != nil {
		t.Fatalf("AddContract: %v", err)
	}
	return companyID, contractID
}

func TestGetContract_JoinsCompany(t *testing.T) {
	s := openTest(t)
	companyID, contractID := seedContract(t, s)

	c, err := s.GetContract(context.Background(), contractID)
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}
	if c.CompanyID != companyID {
		t.Errorf("CompanyID = %d, want %d", c.CompanyID, companyID)
	}
	if c.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q, want Acme", c.CompanyName)
	}
	if c.DisplayTitle() != "Acme - Support" {
		t.Errorf("DisplayTitle = %q, want %q", c.DisplayTitle(), "Acme - Support")
	}
	if !c.StartDate.Equal(day(t, "2024-01-01")) || !c.EndDate.Equal(day(t, "2024-12-31")) {
		t.Errorf("dates = %v..%v", c.StartDate, c.EndDate)
	}
	if !c.IsActive {
		t.Error("new contract should be active")
	}
}

func TestGetContract_NotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.GetContract(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddContract_RejectsInvertedDates(t *testing.T) {
	s := openTest(t)
	companyID, _ := seedContract(t, s)

	_, err := s.AddContract(context.Background(), model.Contract{
		CompanyID:  companyID,
		TotalHours: 10,
		StartDate:  day(t, "2024-06-01"),
		EndDate:    day(t, "2024-05-01"),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestDeactivateContract_HidesFromActiveList(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, contractID := seedContract(t, s)

	if err := s.DeactivateContract(ctx, contractID); err != nil {
		t.Fatalf("DeactivateContract: %v", err)
	}

	active, err := s.ListContracts(ctx, true)
	if err != nil {
		t.Fatalf("ListContracts: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active contracts = %d, want 0", len(active))
	}

	all, err := s.ListContracts(ctx, false)
	if err != nil {
		t.Fatalf("ListContracts: %v", err)
	}
	if len(all) != 1 || all[0].IsActive {
		t.Errorf("all = %+v, want one inactive contract", all)
	}

	if err := s.DeactivateContract(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("deactivate unknown: err = %v, want ErrNotFound", err)
	}
}

func TestEntries_RoundTripAndRunningClosedAtNow(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, contractID := seedContract(t, s)

	start := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	dur := int64(1800)
	if _, err := s.AddEntry(ctx, model.TimeEntry{
		ContractID: contractID, StartTime: start, EndTime: start.Add(2 * time.Hour), Description: "setup",
	}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := s.AddEntry(ctx, model.TimeEntry{
		ContractID: contractID, StartTime: start.Add(24 * time.Hour), DurationSecs: &dur,
	}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	runningAt := start.Add(48 * time.Hour)
	if _, err := s.StartEntry(ctx, contractID, "ana", "review", runningAt); err != nil {
		t.Fatalf("StartEntry: %v", err)
	}

	listed, err := s.ListEntries(ctx, contractID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("entries = %d, want 3", len(listed))
	}
	if listed[1].DurationSecs == nil || *listed[1].DurationSecs != 1800 {
		t.Errorf("explicit duration lost: %+v", listed[1])
	}
	if !listed[2].IsRunning() {
		t.Errorf("third entry should be running: %+v", listed[2])
	}

	now := runningAt.Add(90 * time.Minute)
	snap, err := s.EntriesForContract(ctx, contractID, now)
	if err != nil {
		t.Fatalf("EntriesForContract: %v", err)
	}
	if !snap[2].EndTime.Equal(now) {
		t.Errorf("running entry EndTime = %v, want %v", snap[2].EndTime, now)
	}
	if !snap[0].EndTime.Equal(start.Add(2 * time.Hour)) {
		t.Errorf("closed entry EndTime changed: %v", snap[0].EndTime)
	}
}

func TestStartEntry_ClosesPreviousRunning(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, contractID := seedContract(t, s)

	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(45 * time.Minute)
	if _, err := s.StartEntry(ctx, contractID, "", "first", first); err != nil {
		t.Fatalf("StartEntry: %v", err)
	}
	if _, err := s.StartEntry(ctx, contractID, "", "second", second); err != nil {
		t.Fatalf("StartEntry: %v", err)
	}

	entries, err := s.ListEntries(ctx, contractID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if !entries[0].EndTime.Equal(second) {
		t.Errorf("first EndTime = %v, want %v", entries[0].EndTime, second)
	}

	running, err := s.RunningEntry(ctx)
	if err != nil {
		t.Fatalf("RunningEntry: %v", err)
	}
	if running.Description != "second" {
		t.Errorf("running = %q, want second", running.Description)
	}

	n, err := s.StopRunning(ctx, second.Add(time.Hour))
	if err != nil {
		t.Fatalf("StopRunning: %v", err)
	}
	if n != 1 {
		t.Errorf("stopped = %d, want 1", n)
	}
	if _, err := s.RunningEntry(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("RunningEntry after stop: err = %v, want ErrNotFound", err)
	}
}

func TestAddEntry_RejectsEndBeforeStart(t *testing.T) {
	s := openTest(t)
	_, contractID := seedContract(t, s)
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	_, err := s.AddEntry(context.Background(), model.TimeEntry{
		ContractID: contractID, StartTime: start, EndTime: start.Add(-time.Minute),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestImportFile_ReplacesPreviousRows(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, contractID := seedContract(t, s)

	entry := func(day int) model.TimeEntry {
		start := time.Date(2024, 2, day, 9, 0, 0, 0, time.UTC)
		return model.TimeEntry{ContractID: contractID, StartTime: start, EndTime: start.Add(time.Hour)}
	}

	if _, err := s.AddEntry(ctx, entry(1)); err != nil {
		t.Fatal(err)
	}
	if n, err := s.ImportFile(ctx, "/tmp/a.csv", FileInfo{MtimeNs: 10, SizeBytes: 20}, []model.TimeEntry{entry(2)}); err != nil || n != 1 {
		t.Fatalf("ImportFile = %d, %v", n, err)
	}
	n, err := s.ImportFile(ctx, "/tmp/a.csv", FileInfo{MtimeNs: 11, SizeBytes: 25, BatchID: "b2"},
		[]model.TimeEntry{entry(2), entry(3)})
	if err != nil || n != 2 {
		t.Fatalf("ImportFile = %d, %v", n, err)
	}

	entries, err := s.ListEntries(ctx, contractID)
	if err != nil {
		t.Fatal(err)
	}
	// The manual entry survives; the file's first import is replaced, not appended to.
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	files, err := s.GetTrackedFiles(ctx)
	if err != nil {
		t.Fatalf("GetTrackedFiles: %v", err)
	}
	if got := files["/tmp/a.csv"]; got.MtimeNs != 11 || got.SizeBytes != 25 || got.BatchID != "b2" {
		t.Errorf("tracked = %+v, want {11 25 b2}", got)
	}
}

func TestImportFile_InvalidEntryLeavesPreviousImport(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, contractID := seedContract(t, s)

	start := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	good := model.TimeEntry{ContractID: contractID, StartTime: start, EndTime: start.Add(time.Hour)}
	if _, err := s.ImportFile(ctx, "/tmp/b.csv", FileInfo{MtimeNs: 1}, []model.TimeEntry{good}); err != nil {
		t.Fatal(err)
	}

	neg := int64(-60)
	bad := model.TimeEntry{ContractID: contractID, StartTime: start, DurationSecs: &neg}
	if _, err := s.ImportFile(ctx, "/tmp/b.csv", FileInfo{MtimeNs: 2}, []model.TimeEntry{good, bad}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}

	entries, _ := s.ListEntries(ctx, contractID)
	files, _ := s.GetTrackedFiles(ctx)
	if len(entries) != 1 || files["/tmp/b.csv"].MtimeNs != 1 {
		t.Errorf("after failed import: %d entries, tracked %+v; want the first import intact", len(entries), files["/tmp/b.csv"])
	}
}

func TestAddEntry_RejectsNegativeDuration(t *testing.T) {
	s := openTest(t)
	_, contractID := seedContract(t, s)

	neg := int64(-60)
	_, err := s.AddEntry(context.Background(), model.TimeEntry{
		ContractID: contractID, StartTime: day(t, "2024-02-01"), DurationSecs: &neg,
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, contractID := seedContract(t, s)

	start := day(t, "2024-02-01")
	id, err := s.AddEntry(ctx, model.TimeEntry{ContractID: contractID, StartTime: start, EndTime: start.Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}

	e, err := s.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	secs := int64(5400)
	e.DurationSecs = &secs
	e.EndTime = time.Time{}
	e.Description = "fixed"
	if err := s.UpdateEntry(ctx, e); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}

	got, err := s.GetEntry(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "fixed" || got.DurationSecs == nil || *got.DurationSecs != 5400 || !got.EndTime.IsZero() {
		t.Errorf("updated = %+v", got)
	}

	e.EndTime = start.Add(-time.Hour)
	if err := s.UpdateEntry(ctx, e); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("inverted update err = %v, want ErrInvalidRange", err)
	}

	if err := s.DeleteEntry(ctx, id); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if _, err := s.GetEntry(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEntry after delete err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteEntry(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	e.EndTime = time.Time{}
	if err := s.UpdateEntry(ctx, e); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of deleted entry err = %v, want ErrNotFound", err)
	}
}

func TestUsers(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if _, err := s.AddUser(ctx, model.User{Name: "  "}); err == nil {
		t.Error("expected error for blank name")
	}
	if _, err := s.AddUser(ctx, model.User{Name: "rita", Email: "rita@acme.test", Role: "lead"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if _, err := s.AddUser(ctx, model.User{Name: "ana"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if _, err := s.AddUser(ctx, model.User{Name: "rita"}); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate AddUser err = %v, want ErrDuplicateUser", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	if users[0].Name != "ana" || users[0].Role != "member" {
		t.Errorf("users[0] = %+v, want ana/member", users[0])
	}
	if users[1].Email != "rita@acme.test" || users[1].Role != "lead" {
		t.Errorf("users[1] = %+v", users[1])
	}

	if ok, err := s.HasUser(ctx, "ana"); err != nil || !ok {
		t.Errorf("HasUser(ana) = %v, %v; want true", ok, err)
	}
	if ok, err := s.HasUser(ctx, "bob"); err != nil || ok {
		t.Errorf("HasUser(bob) = %v, %v; want false", ok, err)
	}
}
