package buoy

import (
	"testing"
	"time"

	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/geom"
	"github.com/buoy-ui/buoy/pkg/overlay"
	"github.com/buoy-ui/buoy/pkg/remote"
)

// =============================================================================
// Document Tests
// =============================================================================

func TestDocumentIsDomDocument(t *testing.T) {
	// Verify that buoy.Document is the same type as dom.Document
	var facade *Document
	var underlying *dom.Document

	// They should be assignable
	facade = underlying
	_ = facade
}

func TestDocumentOptionsExist(t *testing.T) {
	// Verify document options are exported
	_ = WithClock
	_ = WithLogger
	_ = WithMetrics
	_ = WithViewport
}

func TestDocumentOptionType(t *testing.T) {
	// Verify Option is the correct type
	var opt Option
	opt = WithClock(NewManualClock())
	_ = opt

	opt = WithViewport(geom.Size{Width: 1024, Height: 768})
	_ = opt
}

func TestNodeBuilders(t *testing.T) {
	n := NewNode("item").At(10, 20, 30, 40).SetFocusable(true)
	if n.ID() != "item" {
		t.Errorf("expected 'item', got %q", n.ID())
	}
	if !n.Focusable() {
		t.Error("expected focusable node")
	}
	if r := n.Rect(); r.Left != 10 || r.Top != 20 || r.Width != 30 || r.Height != 40 {
		t.Errorf("unexpected rect %+v", r)
	}

	// A node satisfies the Element interface
	var el Element = n
	_ = el
}

// =============================================================================
// Overlay Tests
// =============================================================================

func TestOptionsIsOverlayOptions(t *testing.T) {
	// Verify that buoy.Options is the same type as overlay.Options
	var facade Options
	var underlying overlay.Options

	facade = underlying
	_ = facade
}

func TestOverlayTypesExported(t *testing.T) {
	var _ *Overlay
	var _ Delay
	var _ Update
	var _ Styles
	var _ Attrs
}

func TestStateConstants(t *testing.T) {
	// Verify state constants match the overlay package
	if StateClosed != overlay.StateClosed {
		t.Error("StateClosed mismatch")
	}
	if StateOpening != overlay.StateOpening {
		t.Error("StateOpening mismatch")
	}
	if StateOpen != overlay.StateOpen {
		t.Error("StateOpen mismatch")
	}
	if StateClosing != overlay.StateClosing {
		t.Error("StateClosing mismatch")
	}
}

func TestTriggerModeConstants(t *testing.T) {
	// Verify trigger mode constants match the overlay package
	if TriggerClick != overlay.TriggerClick {
		t.Error("TriggerClick mismatch")
	}
	if TriggerHover != overlay.TriggerHover {
		t.Error("TriggerHover mismatch")
	}
	if TriggerFocus != overlay.TriggerFocus {
		t.Error("TriggerFocus mismatch")
	}
	if TriggerManual != overlay.TriggerManual {
		t.Error("TriggerManual mismatch")
	}
}

func TestParseTriggerMode(t *testing.T) {
	if mode := ParseTriggerMode("hover"); mode != TriggerHover {
		t.Errorf("expected TriggerHover, got %v", mode)
	}
	if mode := ParseTriggerMode("garbage"); mode != TriggerClick {
		t.Errorf("expected TriggerClick fallback, got %v", mode)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Trigger != TriggerClick {
		t.Errorf("expected click trigger, got %v", opts.Trigger)
	}
	if !opts.CloseOnEscape {
		t.Error("expected CloseOnEscape")
	}
	if !opts.CloseOnPointerDownOutside {
		t.Error("expected CloseOnPointerDownOutside")
	}
}

func TestClickOpensOverlay(t *testing.T) {
	clock := NewManualClock()
	doc := NewDocument(
		WithClock(clock),
		WithViewport(geom.Size{Width: 1024, Height: 768}),
	)
	trigger := NewNode("menu-button").At(100, 100, 80, 30).SetFocusable(true)
	panel := NewNode("menu-panel").At(0, 0, 200, 160)

	var last Update
	opts := DefaultOptions()
	opts.OnUpdate = func(u Update) { last = u }

	ov, err := New(doc, trigger, panel, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer ov.Destroy()

	if ov.State() != StateClosed {
		t.Fatalf("initial state = %v, want closed", ov.State())
	}

	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerDown, Target: trigger})
	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerUp, Target: trigger})

	if ov.State() != StateOpen {
		t.Fatalf("state after click = %v, want open", ov.State())
	}
	if last.State != StateOpen {
		t.Fatalf("last update state = %v, want open", last.State)
	}

	// An outside press closes it again
	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerDown, Target: nil, Point: geom.Point{X: 900, Y: 700}})
	if ov.State() != StateClosed {
		t.Fatalf("state after outside press = %v, want closed", ov.State())
	}
}

func TestHoverDelayUsesClock(t *testing.T) {
	clock := NewManualClock()
	doc := NewDocument(
		WithClock(clock),
		WithViewport(geom.Size{Width: 1024, Height: 768}),
	)
	trigger := NewNode("link").At(100, 100, 80, 30)
	panel := NewNode("tooltip").At(0, 0, 120, 32)

	opts := DefaultOptions()
	opts.Trigger = TriggerHover
	opts.Delay = Delay{Show: 150 * time.Millisecond}

	ov, err := New(doc, trigger, panel, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer ov.Destroy()

	doc.Dispatch(dom.PointerEvent{Kind: dom.PointerEnter, Target: trigger})
	if ov.State() != StateClosed {
		t.Fatalf("state before delay = %v, want closed", ov.State())
	}

	clock.Advance(150 * time.Millisecond)
	if ov.State() != StateOpen {
		t.Fatalf("state after delay = %v, want open", ov.State())
	}
}

// =============================================================================
// Placement Tests
// =============================================================================

func TestPlacementConstants(t *testing.T) {
	// Verify side and align constants match the anchor package
	if SideBottom != anchor.SideBottom {
		t.Error("SideBottom mismatch")
	}
	if SideTop != anchor.SideTop {
		t.Error("SideTop mismatch")
	}
	if SideRight != anchor.SideRight {
		t.Error("SideRight mismatch")
	}
	if SideLeft != anchor.SideLeft {
		t.Error("SideLeft mismatch")
	}
	if AlignCenter != anchor.AlignCenter {
		t.Error("AlignCenter mismatch")
	}
	if AlignStart != anchor.AlignStart {
		t.Error("AlignStart mismatch")
	}
	if AlignEnd != anchor.AlignEnd {
		t.Error("AlignEnd mismatch")
	}
}

func TestParsePlacementRoundTrip(t *testing.T) {
	p := ParsePlacement("top-end")
	if p.Side != SideTop || p.Align != AlignEnd {
		t.Errorf("unexpected placement %+v", p)
	}
	if p.String() != "top-end" {
		t.Errorf("expected 'top-end', got %q", p.String())
	}

	if ParsePlacement("garbage") != DefaultPlacement {
		t.Error("expected default placement for unknown token")
	}
}

func TestComputeBottomCenter(t *testing.T) {
	res := Compute(
		geom.Rect{Left: 472, Top: 100, Width: 80, Height: 30},
		geom.Rect{Width: 160, Height: 40},
		PositionConfig{
			Placement: ParsePlacement("bottom"),
			Boundary:  geom.Rect{Width: 1024, Height: 768},
		},
	)
	if res.X != 432 {
		t.Errorf("expected X 432, got %g", res.X)
	}
	if res.Y != 130 {
		t.Errorf("expected Y 130, got %g", res.Y)
	}
	if res.Flipped || res.Hidden {
		t.Errorf("unexpected flip/hide: %+v", res)
	}
}

func TestPositionConfigIsAnchorConfig(t *testing.T) {
	// Verify that buoy.PositionConfig is the same type as anchor.Config
	var facade PositionConfig
	var underlying anchor.Config

	facade = underlying
	_ = facade

	var result PositionResult
	result = anchor.Result{}
	_ = result
}

// =============================================================================
// Remote Session Tests
// =============================================================================

func TestServerConfigIsRemoteConfig(t *testing.T) {
	// Verify that buoy.ServerConfig is the same type as remote.Config
	var facade ServerConfig
	var underlying remote.Config

	facade = underlying
	_ = facade
}

func TestRemoteExportsExist(t *testing.T) {
	_ = NewServer
	_ = Dial
	var _ *Server
	var _ *Client
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	if cfg.Addr != ":7070" {
		t.Errorf("expected ':7070', got %q", cfg.Addr)
	}
	if cfg.BasePath != "/" {
		t.Errorf("expected '/', got %q", cfg.BasePath)
	}
	if cfg.MaxSessions <= 0 {
		t.Errorf("expected positive session cap, got %d", cfg.MaxSessions)
	}
}
