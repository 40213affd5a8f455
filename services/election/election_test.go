package election

import (
	"errors"
	"testing"
	"time"

	"election-portal/testutil"
)

func TestLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	st, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.Label() != "not_started" {
		t.Fatalf("Expected not_started, got %s", st.Label())
	}

	st, err = svc.Start(nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !st.IsActive || st.StartTime == nil || st.EndTime != nil {
		t.Errorf("Unexpected state after start: active=%v start=%v end=%v", st.IsActive, st.StartTime, st.EndTime)
	}
	if st.Label() != "active" {
		t.Errorf("Expected active, got %s", st.Label())
	}

	st, err = svc.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if st.IsActive || st.EndTime == nil {
		t.Errorf("Unexpected state after stop: active=%v end=%v", st.IsActive, st.EndTime)
	}
	if st.Label() != "ended" {
		t.Errorf("Expected ended, got %s", st.Label())
	}
}

func TestStartWhileActiveFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	started, err := svc.Start(nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := svc.Start(nil); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("Expected ErrAlreadyActive, got %v", err)
	}

	// The failed start leaves the stored state untouched.
	st, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !st.StartTime.Equal(*started.StartTime) {
		t.Errorf("Start time changed on failed start: %v vs %v", st.StartTime, started.StartTime)
	}
}

func TestEndedIsTerminal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	if _, err := svc.Start(nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if _, err := svc.Start(nil); !errors.Is(err, ErrAlreadyEnded) {
		t.Errorf("Expected ErrAlreadyEnded, got %v", err)
	}
	if _, err := svc.Stop(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Expected ErrNotActive on double stop, got %v", err)
	}
}

func TestStopWithoutStartFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	if _, err := svc.Stop(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Expected ErrNotActive, got %v", err)
	}
}

func TestAutoCloseOnRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	short := 20 * time.Millisecond
	started, err := svc.Start(&short)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	st, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.IsActive {
		t.Fatal("Expected election to auto-close after its duration elapsed")
	}
	if st.Label() != "ended" {
		t.Errorf("Expected ended, got %s", st.Label())
	}

	// The recorded end time is the deadline, not the observation instant.
	deadline := started.StartTime.Add(short)
	if st.EndTime == nil || !st.EndTime.Equal(deadline) {
		t.Errorf("Expected end time %v, got %v", deadline, st.EndTime)
	}

	active, err := svc.IsActive()
	if err != nil {
		t.Fatalf("IsActive failed: %v", err)
	}
	if active {
		t.Error("IsActive must report false after auto-close")
	}
}

func TestDurationOverride(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	d := 30 * time.Minute
	st, err := svc.Start(&d)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if st.DurationMs != d.Milliseconds() {
		t.Errorf("Expected duration %d ms, got %d", d.Milliseconds(), st.DurationMs)
	}

	hours, minutes := svc.Remaining(st)
	if hours != 0 || minutes < 28 || minutes > 29 {
		t.Errorf("Unexpected remaining time: %dh %dm", hours, minutes)
	}
}

func TestRemainingInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	st, err := svc.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if h, m := svc.Remaining(st); h != 0 || m != 0 {
		t.Errorf("Expected zero remaining before start, got %dh %dm", h, m)
	}
}

func TestResetAllowsNewElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Hour)

	if _, err := svc.Start(nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := svc.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	st, err := svc.Reset()
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if st.Label() != "not_started" || st.StartTime != nil || st.EndTime != nil {
		t.Errorf("Unexpected state after reset: %s start=%v end=%v", st.Label(), st.StartTime, st.EndTime)
	}

	if _, err := svc.Start(nil); err != nil {
		t.Errorf("Start after reset failed: %v", err)
	}
}
