package capture_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nikbrunner/speeddial/internal/capture"
)

// fakeHost records surface allocations and outstanding listeners.
type fakeHost struct {
	mu        sync.Mutex
	allocErr  error
	surfaces  []*fakeSurface
	configure func(*fakeSurface)
}

func (h *fakeHost) CreateSurface(_ context.Context, opts capture.SurfaceOptions) (capture.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.allocErr != nil {
		return nil, h.allocErr
	}
	s := &fakeSurface{opts: opts, loads: true, image: []byte("jpeg-bytes"), title: "Example"}
	if h.configure != nil {
		h.configure(s)
	}
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

type fakeSurface struct {
	mu         sync.Mutex
	opts       capture.SurfaceOptions
	loads      bool
	navErr     error
	snapErr    error
	titleErr   error
	destroyErr error
	panicOn    string // "navigate" or "snapshot"
	image      []byte
	title      string
	destroyed  int
	listeners  int
	snapshots  []capture.SnapshotOptions
	navigated  string
	pending    *capture.Subscription
}

func (s *fakeSurface) Navigate(_ context.Context, url string) error {
	s.mu.Lock()
	s.navigated = url
	sub := s.pending
	s.mu.Unlock()

	if s.panicOn == "navigate" {
		panic("navigate exploded")
	}
	if s.navErr != nil {
		return s.navErr
	}
	if s.loads && sub != nil {
		go sub.Signal()
	}
	return nil
}

func (s *fakeSurface) OnLoadComplete() (*capture.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners++
	sub := capture.NewSubscription(func() {
		s.mu.Lock()
		s.listeners--
		s.mu.Unlock()
	})
	s.pending = sub
	return sub, nil
}

func (s *fakeSurface) Snapshot(_ context.Context, opts capture.SnapshotOptions) ([]byte, error) {
	s.mu.Lock()
	s.snapshots = append(s.snapshots, opts)
	s.mu.Unlock()
	if s.panicOn == "snapshot" {
		panic("snapshot exploded")
	}
	if s.snapErr != nil {
		return nil, s.snapErr
	}
	return s.image, nil
}

func (s *fakeSurface) Title(context.Context) (string, error) {
	if s.titleErr != nil {
		return "", s.titleErr
	}
	return s.title, nil
}

func (s *fakeSurface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed++
	return s.destroyErr
}

func (s *fakeSurface) state() (destroyed, listeners int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed, s.listeners
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newController(host capture.Host, loadTimeout time.Duration) *capture.Controller {
	return capture.NewController(host, capture.Options{
		LoadTimeout: loadTimeout,
		Logger:      quietLogger(),
	})
}

func assertCleanedUp(t *testing.T, h *fakeHost) {
	t.Helper()
	if len(h.surfaces) != 1 {
		t.Fatalf("expected exactly one surface, got %d", len(h.surfaces))
	}
	destroyed, listeners := h.surfaces[0].state()
	if destroyed != 1 {
		t.Errorf("expected surface destroyed once, got %d", destroyed)
	}
	if listeners != 0 {
		t.Errorf("expected no outstanding listeners, got %d", listeners)
	}
}

func TestCapture_Success(t *testing.T) {
	host := &fakeHost{}
	c := newController(host, time.Second)

	image, err := c.Capture(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(image) != "jpeg-bytes" {
		t.Errorf("unexpected image %q", image)
	}

	assertCleanedUp(t, host)

	s := host.surfaces[0]
	if s.opts.Width != capture.DefaultViewportWidth || s.opts.Height != capture.DefaultViewportHeight {
		t.Errorf("expected default viewport, got %+v", s.opts)
	}
	if s.navigated != "https://example.com" {
		t.Errorf("navigated to %q", s.navigated)
	}
	if len(s.snapshots) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(s.snapshots))
	}
	if s.snapshots[0].Format != capture.FormatJPEG || s.snapshots[0].Quality != capture.DefaultQuality {
		t.Errorf("unexpected snapshot options %+v", s.snapshots[0])
	}
}

func TestCapture_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		configure  func(*fakeSurface)
		wantReason capture.Reason
		wantPanic  bool
	}{
		{
			name:       "navigation error",
			configure:  func(s *fakeSurface) { s.navErr = boom },
			wantReason: capture.NavigationTimeout,
		},
		{
			name:       "snapshot error",
			configure:  func(s *fakeSurface) { s.snapErr = boom },
			wantReason: capture.SnapshotFailed,
		},
		{
			name:       "teardown error after success",
			configure:  func(s *fakeSurface) { s.destroyErr = boom },
			wantReason: capture.TeardownFailed,
		},
		{
			name: "snapshot error wins over teardown error",
			configure: func(s *fakeSurface) {
				s.snapErr = boom
				s.destroyErr = errors.New("teardown")
			},
			wantReason: capture.SnapshotFailed,
		},
		{
			name:      "panic during navigation",
			configure: func(s *fakeSurface) { s.panicOn = "navigate" },
			wantPanic: true,
		},
		{
			name:      "panic during snapshot",
			configure: func(s *fakeSurface) { s.panicOn = "snapshot" },
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{configure: tt.configure}
			c := newController(host, time.Second)

			if tt.wantPanic {
				recovered := func() (r any) {
					defer func() { r = recover() }()
					_, _ = c.Capture(context.Background(), "https://example.com")
					return nil
				}()
				if recovered == nil {
					t.Fatal("expected the panic to propagate")
				}
				assertCleanedUp(t, host)
				return
			}

			image, err := c.Capture(context.Background(), "https://example.com")
			if image != nil {
				t.Errorf("expected no image, got %q", image)
			}
			if !errors.Is(err, capture.ErrCapture) {
				t.Fatalf("expected ErrCapture, got %v", err)
			}
			if got := capture.ReasonOf(err); got != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, got)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected underlying cause in %v", err)
			}

			assertCleanedUp(t, host)
		})
	}
}

func TestCapture_AllocationFailure(t *testing.T) {
	host := &fakeHost{allocErr: errors.New("no browser")}
	c := newController(host, time.Second)

	_, err := c.Capture(context.Background(), "https://example.com")
	if got := capture.ReasonOf(err); got != capture.AllocationFailed {
		t.Fatalf("expected %q, got %q (%v)", capture.AllocationFailed, got, err)
	}
	if len(host.surfaces) != 0 {
		t.Errorf("expected no surfaces, got %d", len(host.surfaces))
	}
}

func TestCapture_LoadCeilingStillSnapshots(t *testing.T) {
	// The page never signals load-complete.
	host := &fakeHost{configure: func(s *fakeSurface) { s.loads = false }}
	c := newController(host, 20*time.Millisecond)

	start := time.Now()
	image, err := c.Capture(context.Background(), "https://slow.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(image) == 0 {
		t.Error("expected an image after the ceiling")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned before ceiling: %v", elapsed)
	}

	assertCleanedUp(t, host)
}

func TestCapture_ContextCancelled(t *testing.T) {
	host := &fakeHost{configure: func(s *fakeSurface) { s.loads = false }}
	c := newController(host, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Capture(ctx, "https://example.com")
	if got := capture.ReasonOf(err); got != capture.NavigationTimeout {
		t.Fatalf("expected %q, got %q (%v)", capture.NavigationTimeout, got, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}

	assertCleanedUp(t, host)
}

func TestCapture_ConcurrentCallsAreIsolated(t *testing.T) {
	host := &fakeHost{}
	c := newController(host, time.Second)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Capture(context.Background(), "https://example.com"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if len(host.surfaces) != 8 {
		t.Fatalf("expected 8 surfaces, got %d", len(host.surfaces))
	}
	for i, s := range host.surfaces {
		destroyed, listeners := s.state()
		if destroyed != 1 || listeners != 0 {
			t.Errorf("surface %d: destroyed=%d listeners=%d", i, destroyed, listeners)
		}
	}
}

func TestTitle(t *testing.T) {
	host := &fakeHost{configure: func(s *fakeSurface) { s.title = "Example Domain" }}
	c := newController(host, time.Second)

	title, err := c.Title(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "Example Domain" {
		t.Errorf("expected Example Domain, got %q", title)
	}
	assertCleanedUp(t, host)
}

func TestTitle_Failure(t *testing.T) {
	boom := errors.New("no document")
	host := &fakeHost{configure: func(s *fakeSurface) { s.titleErr = boom }}
	c := newController(host, time.Second)

	_, err := c.Title(context.Background(), "https://example.com")
	if got := capture.ReasonOf(err); got != capture.TitleUnavailable {
		t.Errorf("expected reason %q, got %q", capture.TitleUnavailable, got)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected underlying cause in %v", err)
	}
	assertCleanedUp(t, host)
}

func TestNewController_CustomOptions(t *testing.T) {
	host := &fakeHost{}
	c := capture.NewController(host, capture.Options{
		Width:   640,
		Height:  480,
		Quality: 90,
		Logger:  quietLogger(),
	})

	if _, err := c.Capture(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := host.surfaces[0]
	if s.opts.Width != 640 || s.opts.Height != 480 {
		t.Errorf("expected 640x480, got %+v", s.opts)
	}
	if s.snapshots[0].Quality != 90 {
		t.Errorf("expected quality 90, got %d", s.snapshots[0].Quality)
	}
}

func TestSubscription(t *testing.T) {
	released := 0
	sub := capture.NewSubscription(func() { released++ })

	select {
	case <-sub.Done():
		t.Fatal("expected pending subscription")
	default:
	}

	sub.Signal()
	sub.Signal()

	select {
	case <-sub.Done():
	default:
		t.Fatal("expected fired subscription")
	}
	if released != 0 {
		t.Errorf("expected Signal to leave the listener alone, got %d releases", released)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	if released != 1 {
		t.Errorf("expected release once, got %d", released)
	}
}

// lockingEmitter dispatches handlers while holding its lock, and removing a
// listener takes the same lock.
type lockingEmitter struct {
	mu       sync.Mutex
	handlers []func()
}

func (e *lockingEmitter) on(h func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

func (e *lockingEmitter) removeAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = nil
}

func TestSubscription_ReleaseDuringDispatch(t *testing.T) {
	emitter := &lockingEmitter{}
	sub := capture.NewSubscription(emitter.removeAll)
	emitter.on(sub.Signal)

	released := make(chan struct{})
	dispatched := make(chan struct{})
	go func() {
		emitter.mu.Lock()
		// The owner gives up waiting while the event is being dispatched.
		go func() {
			sub.Unsubscribe()
			close(released)
		}()
		for _, h := range emitter.handlers {
			h()
		}
		emitter.mu.Unlock()
		close(dispatched)
	}()

	for _, ch := range []chan struct{}{dispatched, released} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch and release deadlocked")
		}
	}

	select {
	case <-sub.Done():
	default:
		t.Error("expected the subscription to be signalled")
	}
}

func TestSubscription_UnsubscribeBeforeSignal(t *testing.T) {
	released := 0
	sub := capture.NewSubscription(func() { released++ })

	sub.Unsubscribe()
	sub.Unsubscribe()

	if released != 1 {
		t.Errorf("expected release once, got %d", released)
	}
}

func TestDataURI(t *testing.T) {
	got := capture.DataURI(capture.FormatJPEG, []byte("hi"))
	if got != "data:image/jpeg;base64,aGk=" {
		t.Errorf("unexpected data URI %q", got)
	}
	if !strings.HasPrefix(capture.DataURI(capture.FormatPNG, nil), "data:image/png;base64,") {
		t.Error("expected png prefix")
	}
}

func TestCaptureError_Message(t *testing.T) {
	err := &capture.CaptureError{Reason: capture.SnapshotFailed, URL: "https://x.test", Err: errors.New("blank")}
	if got := err.Error(); got != "capture https://x.test: snapshot failed: blank" {
		t.Errorf("unexpected message %q", got)
	}
	if capture.ReasonOf(errors.New("plain")) != "" {
		t.Error("expected empty reason for non-capture error")
	}
}
