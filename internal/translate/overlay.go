package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ocrselect/internal/layout"
	"ocrselect/internal/logging"
)

type EventKind int

const (
	// EventTranslated: the batch reply was applied to the words.
	EventTranslated EventKind = iota
	// EventSelectionTranslated: a single-selection reply is ready in Text.
	EventSelectionTranslated
	// EventFailed: a request gave up; Err holds the cause.
	EventFailed
	// EventRetrying: the service is rate limiting; Text is a progress note.
	EventRetrying
)

type Event struct {
	Kind EventKind
	Text string
	Err  error
}

type jobKind int

const (
	jobBatch jobKind = iota
	jobSelection
	jobProgress
)

type job struct {
	kind       jobKind
	generation uint64
	prompt     string
}

type result struct {
	kind       jobKind
	origin     jobKind
	generation uint64
	reply      string
	err        error
}

// Overlay swaps word texts between their recognized and translated forms.
// The batch translation is fetched once per word set on a single background
// worker; every other method runs on the UI goroutine.
type Overlay struct {
	svc    Service
	policy RetryPolicy
	lang   Languages
	logger *logging.Logger

	original   []string
	translated []string
	cached     bool
	enabled    bool
	inflight   bool
	generation uint64

	jobs    chan job
	results chan result
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewOverlay(svc Service, policy RetryPolicy, lang Languages, logger *logging.Logger) *Overlay {
	if logger == nil {
		logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o := &Overlay{
		svc:     svc,
		policy:  policy,
		lang:    lang,
		logger:  logger,
		jobs:    make(chan job, 4),
		results: make(chan result, 4),
		ctx:     ctx,
		cancel:  cancel,
	}
	o.wg.Add(1)
	go o.run()
	return o
}

// Enabled reports whether words currently show translated text.
func (o *Overlay) Enabled() bool { return o.enabled }

// Pending reports whether the batch request for the current word set is in
// flight.
func (o *Overlay) Pending() bool { return o.inflight }

// Reset forgets the cache for a rebuilt word set. Replies still in flight
// for the old set are dropped when they arrive.
func (o *Overlay) Reset() {
	o.generation++
	o.original = nil
	o.translated = nil
	o.cached = false
	o.enabled = false
	o.inflight = false
}

// Toggle flips words between original and translated text. The first call
// for a word set queues the batch request and returns false; the words
// change once Poll delivers the reply. Later calls replay the cache.
func (o *Overlay) Toggle(words []layout.Word) bool {
	if o.inflight {
		return false
	}
	if !o.cached {
		o.original = make([]string, len(words))
		for i, w := range words {
			o.original[i] = w.Text
		}
		if len(o.original) == 0 {
			return false
		}
		if !o.enqueue(job{kind: jobBatch, generation: o.generation, prompt: BatchPrompt(o.lang, o.original)}) {
			return false
		}
		o.inflight = true
		o.logger.Info("Requesting translation", "words", len(words), "generation", o.generation)
		return false
	}
	o.enabled = !o.enabled
	o.apply(words)
	return true
}

// TranslateSelection queues a one-off translation of text. The reply is not
// cached.
func (o *Overlay) TranslateSelection(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return o.enqueue(job{kind: jobSelection, generation: o.generation, prompt: SelectionPrompt(o.lang, text)})
}

// Poll applies finished replies to words and reports what happened. It
// never blocks.
func (o *Overlay) Poll(words []layout.Word) []Event {
	var events []Event
	for {
		select {
		case r := <-o.results:
			if ev, ok := o.handle(r, words); ok {
				events = append(events, ev)
			}
		default:
			return events
		}
	}
}

// Close stops the worker and waits for it to exit.
func (o *Overlay) Close() {
	o.cancel()
	o.wg.Wait()
}

func (o *Overlay) handle(r result, words []layout.Word) (Event, bool) {
	if r.kind == jobProgress {
		if r.origin == jobBatch && r.generation != o.generation {
			return Event{}, false
		}
		return Event{Kind: EventRetrying, Text: r.reply}, true
	}
	if r.kind == jobSelection {
		if r.err != nil {
			return Event{Kind: EventFailed, Err: r.err}, true
		}
		return Event{Kind: EventSelectionTranslated, Text: r.reply}, true
	}

	if r.generation != o.generation {
		o.logger.Debug("Dropping stale translation", "generation", r.generation, "current", o.generation)
		return Event{}, false
	}
	o.inflight = false
	if r.err != nil {
		o.logger.Warn("Translation failed", "error", r.err)
		return Event{Kind: EventFailed, Err: r.err}, true
	}

	lines := SplitLines(r.reply)
	o.translated = make([]string, len(o.original))
	copy(o.translated, o.original)
	copy(o.translated, lines[:min(len(lines), len(o.original))])
	if len(lines) != len(o.original) {
		o.logger.Warn("Translated line count differs", "want", len(o.original), "got", len(lines))
	}
	o.cached = true
	o.enabled = true
	o.apply(words)
	return Event{Kind: EventTranslated}, true
}

func (o *Overlay) apply(words []layout.Word) {
	src := o.original
	if o.enabled {
		src = o.translated
	}
	for i := 0; i < len(words) && i < len(src); i++ {
		words[i].Text = src[i]
	}
}

func (o *Overlay) enqueue(j job) bool {
	select {
	case o.jobs <- j:
		return true
	default:
		o.logger.Warn("Translation queue full")
		return false
	}
}

func (o *Overlay) run() {
	defer o.wg.Done()
	for {
		select {
		case <-o.ctx.Done():
			return
		case j := <-o.jobs:
			reply, err := o.retryPolicy(j).Do(o.ctx, o.svc, j.prompt)
			r := result{kind: j.kind, generation: j.generation, reply: strings.TrimSpace(reply), err: err}
			select {
			case o.results <- r:
			case <-o.ctx.Done():
				return
			}
		}
	}
}

// retryPolicy reports each backoff wait back to the UI goroutine. Progress
// notes are dropped rather than blocking the worker.
func (o *Overlay) retryPolicy(j job) RetryPolicy {
	p := o.policy
	total := p.MaxAttempts
	if total <= 0 {
		total = 1
	}
	next := p.OnRetry
	p.OnRetry = func(attempt int, wait time.Duration) {
		o.logger.Info("Translation rate limited, backing off", "attempt", attempt, "wait", wait)
		if next != nil {
			next(attempt, wait)
		}
		note := result{kind: jobProgress, origin: j.kind, generation: j.generation, reply: fmt.Sprintf("Service is busy. Retrying... (%d/%d)", attempt, total)}
		select {
		case o.results <- note:
		default:
		}
	}
	return p
}
