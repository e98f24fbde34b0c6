package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ocrselect/internal/layout"
)

// scriptedService replays a fixed list of replies and errors.
type scriptedService struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	replies []string
	errs    []error
	gate    chan struct{}
}

func (s *scriptedService) Translate(ctx context.Context, prompt string) (string, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", nil
}

func (s *scriptedService) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func noSleep(context.Context, time.Duration) error { return nil }

func wordsOf(texts ...string) []layout.Word {
	out := make([]layout.Word, len(texts))
	for i, t := range texts {
		out[i] = layout.Word{Index: i, Text: t}
	}
	return out
}

func texts(words []layout.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// pollUntil drains results until a final (non-progress) event arrives. The
// final event is returned first, followed by any progress events seen.
func pollUntil(t *testing.T, o *Overlay, words []layout.Word) []Event {
	t.Helper()
	var progress []Event
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, ev := range o.Poll(words) {
			if ev.Kind == EventRetrying {
				progress = append(progress, ev)
				continue
			}
			return append([]Event{ev}, progress...)
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for translation")
	return nil
}

func TestRetryStopsOnSuccess(t *testing.T) {
	svc := &scriptedService{
		errs:    []error{ErrRateLimited, ErrRateLimited},
		replies: []string{"", "", "ok"},
	}
	var slept []time.Duration
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Sleep: func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}}
	reply, err := p.Do(context.Background(), svc, "x")
	if err != nil || reply != "ok" {
		t.Fatalf("unexpected result: %q %v", reply, err)
	}
	if len(slept) != 2 || slept[0] != 2*time.Second || slept[1] != 4*time.Second {
		t.Fatalf("unexpected backoff schedule: %v", slept)
	}
}

func TestRetryGivesUpAfterThreeAttempts(t *testing.T) {
	svc := &scriptedService{errs: []error{ErrRateLimited, ErrRateLimited, ErrRateLimited, nil}}
	_, err := RetryPolicy{MaxAttempts: 3, Sleep: noSleep}.Do(context.Background(), svc, "x")
	var terr *Error
	if !errors.As(err, &terr) || terr.Code != ErrorRateLimited || terr.Attempts != 3 {
		t.Fatalf("unexpected error: %v", err)
	}
	if !IsRateLimited(err) {
		t.Fatalf("cause should stay visible")
	}
	if svc.Calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", svc.Calls())
	}
}

func TestRetryAbortsOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := &scriptedService{errs: []error{boom}}
	_, err := RetryPolicy{MaxAttempts: 3, Sleep: noSleep}.Do(context.Background(), svc, "x")
	var terr *Error
	if !errors.As(err, &terr) || terr.Code != ErrorFailed || !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Calls() != 1 {
		t.Fatalf("non-retryable failure must not retry, got %d calls", svc.Calls())
	}
}

func TestToggleCallsServiceOnce(t *testing.T) {
	svc := &scriptedService{replies: []string{"Hello\nworld"}}
	o := NewOverlay(svc, RetryPolicy{MaxAttempts: 3, Sleep: noSleep}, Languages{Source: "Vietnamese", Target: "English"}, nil)
	defer o.Close()
	words := wordsOf("Xin", "chao")

	if o.Toggle(words) {
		t.Fatalf("first toggle should wait for the reply")
	}
	o.Toggle(words)
	evs := pollUntil(t, o, words)
	if evs[0].Kind != EventTranslated {
		t.Fatalf("unexpected event: %+v", evs[0])
	}
	if got := texts(words); got != "Hello world" {
		t.Fatalf("unexpected words: %q", got)
	}

	if !o.Toggle(words) || texts(words) != "Xin chao" || o.Enabled() {
		t.Fatalf("second toggle should restore originals: %q", texts(words))
	}
	if !o.Toggle(words) || texts(words) != "Hello world" {
		t.Fatalf("third toggle should replay the cache: %q", texts(words))
	}
	if svc.Calls() != 1 {
		t.Fatalf("expected one service call, got %d", svc.Calls())
	}
	if !strings.HasPrefix(svc.prompts[0], "Translate the following Vietnamese text to English. Keep each line separate:\n\nXin\nchao") {
		t.Fatalf("unexpected prompt: %q", svc.prompts[0])
	}
}

func TestToggleSurvivesRateLimits(t *testing.T) {
	svc := &scriptedService{
		errs:    []error{ErrRateLimited, ErrRateLimited},
		replies: []string{"", "", "one\ntwo"},
	}
	base := 5 * time.Millisecond
	o := NewOverlay(svc, DefaultRetryPolicy(base), Languages{Source: "a", Target: "b"}, nil)
	defer o.Close()
	words := wordsOf("uno", "dos")

	start := time.Now()
	o.Toggle(words)
	evs := pollUntil(t, o, words)
	if evs[0].Kind != EventTranslated {
		t.Fatalf("unexpected final event: %+v", evs[0])
	}
	if len(evs) != 3 || evs[1].Text != "Service is busy. Retrying... (2/3)" || evs[2].Text != "Service is busy. Retrying... (3/3)" {
		t.Fatalf("expected two progress notes, got %+v", evs[1:])
	}
	if elapsed := time.Since(start); elapsed < 6*base {
		t.Fatalf("expected at least %v of backoff, waited %v", 6*base, elapsed)
	}
	if texts(words) != "one two" {
		t.Fatalf("unexpected words: %q", texts(words))
	}
	if svc.Calls() != 3 {
		t.Fatalf("expected 3 calls, got %d", svc.Calls())
	}
}

func TestToggleFailureLeavesTextAlone(t *testing.T) {
	svc := &scriptedService{errs: []error{errors.New("bad key")}, replies: []string{"", "x\ny"}}
	o := NewOverlay(svc, RetryPolicy{MaxAttempts: 3, Sleep: noSleep}, Languages{}, nil)
	defer o.Close()
	words := wordsOf("a", "b")

	o.Toggle(words)
	evs := pollUntil(t, o, words)
	if evs[0].Kind != EventFailed || evs[0].Err == nil {
		t.Fatalf("expected failure event, got %+v", evs[0])
	}
	if texts(words) != "a b" || o.Enabled() || o.Pending() {
		t.Fatalf("failed translation must leave words alone: %q", texts(words))
	}

	o.Toggle(words)
	pollUntil(t, o, words)
	if texts(words) != "x y" {
		t.Fatalf("a later toggle should retry: %q", texts(words))
	}
}

func TestStaleReplyIsDropped(t *testing.T) {
	svc := &scriptedService{replies: []string{"late"}, gate: make(chan struct{})}
	o := NewOverlay(svc, RetryPolicy{MaxAttempts: 1}, Languages{}, nil)
	defer o.Close()
	words := wordsOf("early")

	o.Toggle(words)
	o.Reset()
	close(svc.gate)

	deadline := time.Now().Add(time.Second)
	for svc.Calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if evs := o.Poll(words); len(evs) != 0 {
		t.Fatalf("stale reply must be silent, got %+v", evs)
	}
	if words[0].Text != "early" {
		t.Fatalf("stale reply must not touch words: %q", words[0].Text)
	}
}

func TestShortReplyZipsByPosition(t *testing.T) {
	svc := &scriptedService{replies: []string{"ONE"}}
	o := NewOverlay(svc, RetryPolicy{MaxAttempts: 1}, Languages{}, nil)
	defer o.Close()
	words := wordsOf("one", "two", "three")

	o.Toggle(words)
	pollUntil(t, o, words)
	if texts(words) != "ONE two three" {
		t.Fatalf("unexpected words: %q", texts(words))
	}
}

func TestTranslateSelectionIsNotCached(t *testing.T) {
	svc := &scriptedService{replies: []string{"hi", "hi"}}
	o := NewOverlay(svc, RetryPolicy{MaxAttempts: 1}, Languages{Source: "a", Target: "b"}, nil)
	defer o.Close()

	for i := 0; i < 2; i++ {
		if !o.TranslateSelection("chao") {
			t.Fatalf("selection translation should queue")
		}
		evs := pollUntil(t, o, nil)
		if evs[0].Kind != EventSelectionTranslated || evs[0].Text != "hi" {
			t.Fatalf("unexpected event: %+v", evs[0])
		}
	}
	if svc.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", svc.Calls())
	}
	if o.TranslateSelection("  ") {
		t.Fatalf("blank text should not be sent")
	}
}

func TestHTTPServiceDetectsRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPService(srv.URL, "k", "m", time.Second, nil).Translate(context.Background(), "p")
	if !IsRateLimited(err) {
		t.Fatalf("expected rate limit, got %v", err)
	}
}

func TestHTTPServiceDetectsRateLimitInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPService(srv.URL, "", "m", time.Second, nil).Translate(context.Background(), "p")
	if !IsRateLimited(err) {
		t.Fatalf("expected rate limit, got %v", err)
	}
}

func TestHTTPServiceReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer k" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hello \n"}}]}`))
	}))
	defer srv.Close()

	reply, err := NewHTTPService(srv.URL+"/", "k", "m", time.Second, nil).Translate(context.Background(), "p")
	if err != nil || reply != "hello" {
		t.Fatalf("unexpected reply: %q %v", reply, err)
	}
}

func TestHTTPServiceOtherStatusIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewHTTPService(srv.URL, "k", "m", time.Second, nil).Translate(context.Background(), "p")
	if err == nil || IsRateLimited(err) {
		t.Fatalf("expected a plain failure, got %v", err)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines(" a \r\n\nb ")
	if len(got) != 3 || got[0] != "a" || got[1] != "" || got[2] != "b" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestRetryNotesForResetWordsAreDropped(t *testing.T) {
	svc := &scriptedService{
		errs:    []error{ErrRateLimited},
		replies: []string{"", "Hello there", "hola"},
	}
	waiting := make(chan struct{})
	release := make(chan struct{})
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, Sleep: func(ctx context.Context, _ time.Duration) error {
		close(waiting)
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	o := NewOverlay(svc, p, Languages{Source: "a", Target: "b"}, nil)
	defer o.Close()
	words := wordsOf("Xin chao")

	o.Toggle(words)
	<-waiting
	o.Reset()
	close(release)
	if !o.TranslateSelection("chao") {
		t.Fatalf("selection request should queue")
	}

	evs := pollUntil(t, o, words)
	if len(evs) != 1 || evs[0].Kind != EventSelectionTranslated || evs[0].Text != "hola" {
		t.Fatalf("expected only the selection reply, got %+v", evs)
	}
	if texts(words) != "Xin chao" {
		t.Fatalf("stale reply must not touch words: %q", texts(words))
	}
}
