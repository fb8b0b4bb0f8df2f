package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/balancebuddy/internal/model"
	"github.com/theirongolddev/balancebuddy/internal/store"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func newTestService(t *testing.T, clock *testClock, seed *model.State) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	if seed != nil {
		b, err := store.Open(store.KindJSON, dir)
		if err != nil {
			t.Fatalf("store.Open: %v", err)
		}
		if err := b.Save(*seed); err != nil {
			t.Fatalf("seed Save: %v", err)
		}
	}
	s := New(Config{
		DataDir:      dir,
		Storage:      store.KindJSON,
		EventsBuffer: 10,
		Logger:       zerolog.Nop(),
		Now:          clock.Now,
	})
	return s, dir
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Balance:        decimal.RequireFromString("1000"),
		SavedThisMonth: decimal.RequireFromString("50"),
		PendingBills:   3,
		DueSoon:        1,
		Transactions:   10,
	}
	curr := Snapshot{
		Balance:        decimal.RequireFromString("875.25"),
		SavedThisMonth: decimal.RequireFromString("75"),
		PendingBills:   2,
		DueSoon:        0,
		Transactions:   12,
	}

	delta := diffSnapshots(prev, curr)
	if !delta.Balance.Equal(decimal.RequireFromString("-124.75")) {
		t.Fatalf("Balance delta = %s, want -124.75", delta.Balance)
	}
	if !delta.SavedThisMonth.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("SavedThisMonth delta = %s, want 25", delta.SavedThisMonth)
	}
	if delta.PendingBills != -1 || delta.DueSoon != -1 || delta.Transactions != 2 {
		t.Fatalf("delta = %+v", delta)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("self diff not zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2, Logger: zerolog.Nop()})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnce_PublishesRollover(t *testing.T) {
	april := time.Date(2026, time.April, 21, 9, 0, 0, 0, time.UTC)
	clock := &testClock{t: april}

	seed := model.NewState(april)
	seed.Balance = decimal.NewFromInt(800)
	seed.FixedExpenses = []model.FixedExpense{
		{ID: "rent", Name: "Rent", Amount: decimal.NewFromInt(300), DueDay: 1, Paid: true},
	}
	s, dir := newTestService(t, clock, &seed)

	s.pollOnce()
	s.pollOnce()
	clock.Set(time.Date(2026, time.May, 2, 9, 0, 0, 0, time.UTC))
	s.pollOnce()

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	pollCount := s.pollCount
	s.mu.RUnlock()

	if pollCount != 3 {
		t.Errorf("pollCount = %d, want 3", pollCount)
	}
	if len(events) != 2 {
		t.Fatalf("events = %+v, want snapshot then rollover", events)
	}
	if events[0].Type != EventSnapshot || events[1].Type != EventRollover {
		t.Fatalf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if events[1].Delta.PendingBills != 1 {
		t.Errorf("rollover PendingBills delta = %d, want 1", events[1].Delta.PendingBills)
	}

	b, err := store.Open(store.KindJSON, dir)
	if err != nil {
		t.Fatal(err)
	}
	st, _, err := b.Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.LastMonth != 4 || st.FixedExpenses[0].Paid {
		t.Errorf("persisted state not rolled over: month %d paid %v", st.LastMonth, st.FixedExpenses[0].Paid)
	}
}

func TestPollOnce_RecordsLoadError(t *testing.T) {
	clock := &testClock{t: time.Date(2026, time.April, 21, 9, 0, 0, 0, time.UTC)}
	s, dir := newTestService(t, clock, nil)
	b, _ := store.OpenFile(store.PathFor(store.KindJSON, dir))
	if err := writeFile(b.Path(), `{"lastMonth": 40, "lastYear": 2026}`); err != nil {
		t.Fatal(err)
	}

	s.pollOnce()
	st := s.snapshotStatus()
	if st.LastError == "" {
		t.Fatal("LastError empty after malformed store")
	}
	if st.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestRouter(t *testing.T) {
	clock := &testClock{t: time.Date(2026, time.April, 21, 9, 0, 0, 0, time.UTC)}
	s, _ := newTestService(t, clock, nil)
	h := s.Router()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("/healthz = %d", rec.Code)
	}
	if rec := get("/v1/summary"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("/v1/summary before poll = %d, want 503", rec.Code)
	}

	s.pollOnce()

	rec := get("/v1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("/v1/summary = %d", rec.Code)
	}
	var sum struct {
		DaysLeftInMonth int  `json:"daysLeftInMonth"`
		LowBalance      bool `json:"lowBalance"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.DaysLeftInMonth != 10 || !sum.LowBalance {
		t.Errorf("summary = %+v, want 10 days left and low balance", sum)
	}

	var events []Event
	if err := json.NewDecoder(get("/v1/events").Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if err := json.NewDecoder(get("/v1/events?since=1").Body).Decode(&events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events since 1 = %d, want 0", len(events))
	}
	if rec := get("/v1/events?since=x"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad since = %d, want 400", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(get("/v1/status").Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.PollCount != 1 || status.Storage != store.KindJSON {
		t.Errorf("status = %+v", status)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/status", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /v1/status = %d, want 405", rec.Code)
	}
	if rec := get("/v1/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("/v1/nope = %d, want 404", rec.Code)
	}
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o600)
}
