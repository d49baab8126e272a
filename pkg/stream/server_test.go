package stream

import (
	"image/jpeg"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gguiomar/lunar-tools/pkg/camera"
)

// fakeSource serves a fixed frame and stats.
type fakeSource struct {
	frame *camera.Frame
	stats camera.Stats
}

func (s *fakeSource) Latest() *camera.Frame { return s.frame }
func (s *fakeSource) Stats() camera.Stats   { return s.stats }

func newTestServer() (*Server, *fakeSource) {
	f := camera.NewFrame(8, 6)
	for i := range f.Pix {
		f.Pix[i] = 128
	}
	src := &fakeSource{
		frame: f,
		stats: camera.Stats{SessionID: "test-session", FramesPublished: 42, Width: 8, Height: 6},
	}
	return NewServer("0", 5, src), src
}

func TestNewServer_ClampsNonPositiveStreamFPS(t *testing.T) {
	for _, fps := range []int{0, -5} {
		s := NewServer("0", fps, &fakeSource{frame: camera.NewFrame(2, 2)})
		if s.streamFPS <= 0 {
			t.Errorf("NewServer(fps=%d): streamFPS = %d, want positive", fps, s.streamFPS)
		}
	}
}

func TestHandleFrame_ReturnsDecodableJPEG(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("GET", "/api/frame", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}

	img, err := jpeg.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("expected 8x6 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleStats_ReturnsJSON(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("GET", "/api/stats", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`"session_id":"test-session"`, `"frames_published":42`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected body to contain %s, got %s", want, body)
		}
	}
}

func TestWSRoute_RequiresUpgrade(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("GET", "/ws/stats", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 426 {
		t.Errorf("expected 426 Upgrade Required, got %d", resp.StatusCode)
	}
}
