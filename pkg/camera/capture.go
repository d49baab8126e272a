package camera

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gguiomar/lunar-tools/internal/log"
)

// frameSource is the slice of Device the capture loop depends on.
// Tests substitute fakes; production uses OpenDevice.
type frameSource interface {
	ReadFrame() (*Frame, error)
	Close() error
}

// sourceOpener runs the full device-acquisition procedure.
type sourceOpener func(Config) (frameSource, error)

func openSource(cfg Config) (frameSource, error) {
	return OpenDevice(cfg)
}

// Stats is a snapshot of capture-loop counters.
type Stats struct {
	SessionID       string    `json:"session_id"`
	FramesPublished uint64    `json:"frames_published"`
	ReadFailures    uint64    `json:"read_failures"`
	Reacquisitions  uint64    `json:"reacquisitions"`
	LastPublish     time.Time `json:"last_publish"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
}

// Capture owns a background goroutine that polls a capture device and
// publishes post-processed frames into a FrameBuffer. Read failures are
// absorbed: the device is released, a cooldown elapses, and acquisition
// runs again. Callers only ever see the latest good frame.
type Capture struct {
	cfg  Config
	fb   *FrameBuffer
	open sourceOpener
	log  *slog.Logger

	src frameSource

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	framesPublished atomic.Uint64
	readFailures    atomic.Uint64
	reacquisitions  atomic.Uint64
	lastPublish     atomic.Int64 // unix nanos

	mu        sync.RWMutex
	sessionID string
}

// New creates a Capture for cfg. The device is not opened until Start.
func New(cfg Config) (*Capture, error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid capture config: %v", problems)
	}
	return newWithOpener(cfg, openSource), nil
}

func newWithOpener(cfg Config, open sourceOpener) *Capture {
	return &Capture{
		cfg:  cfg,
		fb:   NewFrameBuffer(cfg.Width, cfg.Height),
		open: open,
		log:  log.Sub("camera"),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start acquires the device and launches the capture goroutine. It fails
// if no candidate device yields a frame; once running, later device
// failures are recovered in the background instead.
func (c *Capture) Start() error {
	src, err := c.open(c.cfg)
	if err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	c.src = src
	c.newSession()

	go c.run()
	return nil
}

// Latest returns the most recently published frame without blocking.
func (c *Capture) Latest() *Frame {
	return c.fb.Latest()
}

// Stats returns a snapshot of the capture counters.
func (c *Capture) Stats() Stats {
	c.mu.RLock()
	session := c.sessionID
	c.mu.RUnlock()

	return Stats{
		SessionID:       session,
		FramesPublished: c.framesPublished.Load(),
		ReadFailures:    c.readFailures.Load(),
		Reacquisitions:  c.reacquisitions.Load(),
		LastPublish:     time.Unix(0, c.lastPublish.Load()),
		Width:           c.cfg.Width,
		Height:          c.cfg.Height,
	}
}

// Stop signals the loop to exit, waits for the goroutine to finish, and
// releases the device. Call it exactly once.
func (c *Capture) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
		if c.src != nil {
			c.src.Close()
			c.src = nil
		}
	})
}

func (c *Capture) newSession() {
	c.mu.Lock()
	c.sessionID = uuid.NewString()
	c.mu.Unlock()
}

func (c *Capture) run() {
	defer close(c.done)

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		frame, err := c.src.ReadFrame()
		if err != nil {
			c.readFailures.Add(1)
			c.log.Warn("frame read failed, reacquiring device", "error", err)
			c.src.Close()
			c.src = nil
			if !c.recover() {
				return
			}
		} else {
			c.fb.Publish(frame.process(c.cfg))
			c.framesPublished.Add(1)
			c.lastPublish.Store(time.Now().UnixNano())
		}

		if !c.pause(c.cfg.PollInterval) {
			return
		}
	}
}

// recover re-runs device acquisition after the cooldown, retrying until a
// device comes back or Stop is called. Returns false when stopping.
func (c *Capture) recover() bool {
	for {
		if !c.pause(c.cfg.RecoverCooldown) {
			return false
		}

		src, err := c.open(c.cfg)
		if err != nil {
			c.log.Error("device reacquisition failed", "error", err)
			continue
		}

		c.src = src
		c.reacquisitions.Add(1)
		c.newSession()
		c.log.Info("capture device reacquired", "session", c.Stats().SessionID)
		return true
	}
}

// pause sleeps for d unless Stop is called first.
func (c *Capture) pause(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-c.stop:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-c.stop:
		return false
	case <-timer.C:
		return true
	}
}
