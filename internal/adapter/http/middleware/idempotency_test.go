package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omnibank/walletd/internal/adapter/http/middleware"
)

type memoryIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: make(map[string][]byte)}
}

func (s *memoryIdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, _ time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.values[key]; ok {
		return true, existing, nil
	}

	if response == nil {
		response = []byte("processing")
	}
	s.values[key] = response

	return false, nil, nil
}

func (s *memoryIdempotencyStore) Update(_ context.Context, key string, response []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = response
	return nil
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader("{}"))
	if key != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, key)
	}
	return req
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	mw := middleware.NewIdempotencyMiddleware(store)

	var calls int32
	wrapped := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true}`))
	}))

	first := httptest.NewRecorder()
	wrapped.ServeHTTP(first, postWithKey("key-1"))

	second := httptest.NewRecorder()
	wrapped.ServeHTTP(second, postWithKey("key-1"))

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected handler to run once, ran %d times", got)
	}
	if second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Errorf("expected replay header on the second response")
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("expected replayed body %q, got %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	store := newMemoryIdempotencyStore()
	mw := middleware.NewIdempotencyMiddleware(store)

	var calls int32
	release := make(chan struct{})
	wrapped := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.Write([]byte(`{"success":true}`))
	}))

	firstDone := make(chan *httptest.ResponseRecorder)
	go func() {
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, postWithKey("key-2"))
		firstDone <- rec
	}()

	for atomic.LoadInt32(&calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	duplicate := httptest.NewRecorder()
	wrapped.ServeHTTP(duplicate, postWithKey("key-2"))

	if duplicate.Code != http.StatusConflict {
		t.Errorf("expected 409 for an in-flight duplicate, got %d", duplicate.Code)
	}

	close(release)
	first := <-firstDone

	if first.Code != http.StatusOK {
		t.Errorf("expected the original request to succeed, got %d", first.Code)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected handler to run once, ran %d times", got)
	}
}

func TestIdempotencySkipsReadsAndMissingKeys(t *testing.T) {
	store := newMemoryIdempotencyStore()
	mw := middleware.NewIdempotencyMiddleware(store)

	var calls int32
	wrapped := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"success":true}`))
	}))

	get := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	get.Header.Set(middleware.IdempotencyKeyHeader, "key-3")
	wrapped.ServeHTTP(httptest.NewRecorder(), get)

	wrapped.ServeHTTP(httptest.NewRecorder(), postWithKey(""))
	wrapped.ServeHTTP(httptest.NewRecorder(), postWithKey(""))

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected every keyless request to run, ran %d of 3", got)
	}
}
