package plot

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"terraview/internal/render"
	"terraview/internal/scene"
)

// DefaultFrameInterval is the redraw period used when Start gets zero.
const DefaultFrameInterval = 100 * time.Millisecond

// Session owns a mesh renderer, the surface it draws on and the redraw loop.
// Create one when a 2D view opens and Dispose it when the view goes away;
// the loop never outlives Dispose or the context given to Start.
type Session struct {
	mu       sync.Mutex
	renderer *MeshRenderer
	surface  render.Surface
	logger   *log.Logger
	started  time.Time
	frames   int
	stats    scene.Stats

	cancel   context.CancelFunc
	stopped  chan struct{}
	disposed bool
}

// NewSession binds renderer to surface.
func NewSession(renderer *MeshRenderer, surface render.Surface, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{renderer: renderer, surface: surface, logger: logger, started: time.Now()}
}

// Update replaces the terrain and draws one frame. When g is rejected the
// frame shows the previous terrain.
func (s *Session) Update(g Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.renderer.Update(g)
	s.drawLocked()
	return err
}

// Start launches the redraw loop. onFrame, if set, runs after each frame
// outside the session lock. Start returns false when the loop is already
// running or the session was disposed.
func (s *Session) Start(ctx context.Context, interval time.Duration, onFrame func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || s.cancel != nil {
		return false
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go func(stopped chan struct{}) {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.Draw()
				if onFrame != nil {
					onFrame()
				}
			}
		}
	}(s.stopped)

	s.logger.Debug("render loop started", "interval", interval)
	return true
}

// Draw renders one frame now.
func (s *Session) Draw() scene.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawLocked()
}

func (s *Session) drawLocked() scene.Stats {
	s.stats = s.renderer.Render(s.surface, time.Since(s.started))
	s.frames++
	return s.stats
}

// Dispose stops the redraw loop and waits for it to exit. It is safe to call
// more than once and from any goroutine except an onFrame callback.
func (s *Session) Dispose() {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	alreadyDisposed := s.disposed
	s.disposed = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-stopped
	}
	if !alreadyDisposed {
		s.logger.Debug("session disposed", "frames", s.Frames())
	}
}

// Running reports whether the redraw loop is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped == nil {
		return false
	}
	select {
	case <-stopped:
		return false
	default:
		return true
	}
}

// Inspect calls fn with the surface while no frame is being drawn.
func (s *Session) Inspect(fn func(render.Surface)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.surface)
}

// Resize changes the client size of the surface; the next frame picks it up.
// Surfaces without a client size are left alone.
func (s *Session) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cs, ok := s.surface.(render.ClientSizer); ok {
		cs.SetClientSize(w, h)
	}
}

// Frames returns how many frames were drawn.
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Stats returns the statistics of the last frame.
func (s *Session) Stats() scene.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// SetWireframe toggles wireframe drawing from the next frame on.
func (s *Session) SetWireframe(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.SetWireframe(on)
}

// Wireframe reports whether wireframe drawing is on.
func (s *Session) Wireframe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Wireframe()
}
