// Package buoy provides the public API for the Buoy overlay engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/buoy-ui/buoy"
//
// Usage:
//
//	doc := buoy.NewDocument()
//	trigger := buoy.NewNode("menu-button").At(100, 100, 80, 30)
//	panel := buoy.NewNode("menu-panel").At(0, 0, 200, 160)
//
//	opts := buoy.DefaultOptions()
//	opts.Position.Placement = buoy.ParsePlacement("bottom-start")
//	opts.OnUpdate = func(u buoy.Update) { applyToWidget(u) }
//
//	ov, err := buoy.New(doc, trigger, panel, opts)
//
// Overlays react to events dispatched on the document; hosts that run the
// engine remotely use NewServer and the wire protocol instead of driving a
// document directly.
package buoy

import (
	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/overlay"
	"github.com/buoy-ui/buoy/pkg/remote"
)

// =============================================================================
// Document (re-export from pkg/dom)
// =============================================================================

// Document is the engine's event and state root. All overlays attached to a
// document run on its single cooperative goroutine.
type Document = dom.Document

// NewDocument creates a document.
var NewDocument = dom.NewDocument

// Option configures a Document.
type Option = dom.Option

// WithClock substitutes the document's time source. Tests use a ManualClock.
var WithClock = dom.WithClock

// WithLogger sets the document's structured logger.
var WithLogger = dom.WithLogger

// WithMetrics attaches a metrics collector.
var WithMetrics = dom.WithMetrics

// WithViewport sets the initial viewport size.
var WithViewport = dom.WithViewport

// Element is a positioned node in the document tree.
type Element = dom.Element

// Node is the concrete element implementation.
type Node = dom.Node

// NewNode creates a detached node.
var NewNode = dom.NewNode

// Event is a dispatched input event.
type Event = dom.Event

// Middleware wraps event dispatch on a document.
type Middleware = dom.Middleware

// Clock abstracts the document's timers.
type Clock = dom.Clock

// ManualClock is a test clock advanced by hand.
type ManualClock = dom.ManualClock

// NewManualClock creates a manual clock at time zero.
var NewManualClock = dom.NewManualClock

// =============================================================================
// Overlays (re-export from pkg/overlay)
// =============================================================================

// Overlay ties a trigger and a floating element into one interactive unit.
type Overlay = overlay.Overlay

// Options configures an overlay. Start from DefaultOptions and override.
type Options = overlay.Options

// Delay holds the hover show and hide delays.
type Delay = overlay.Delay

// Update carries the styles and attributes the widget must apply.
type Update = overlay.Update

// Styles is the style portion of an Update.
type Styles = overlay.Styles

// Attrs is the attribute portion of an Update.
type Attrs = overlay.Attrs

// New creates an overlay on the document. A nil opts uses DefaultOptions.
var New = overlay.New

// DefaultOptions returns the baseline configuration: click trigger, flip and
// shift enabled, dismiss on escape and outside pointer-down, focus returned
// on close.
var DefaultOptions = overlay.DefaultOptions

// State is the overlay lifecycle state.
type State = overlay.State

// Lifecycle states.
const (
	StateClosed  = overlay.StateClosed
	StateOpening = overlay.StateOpening
	StateOpen    = overlay.StateOpen
	StateClosing = overlay.StateClosing
)

// TriggerMode selects which gesture opens an overlay.
type TriggerMode = overlay.TriggerMode

// Trigger modes.
const (
	TriggerClick  = overlay.TriggerClick
	TriggerHover  = overlay.TriggerHover
	TriggerFocus  = overlay.TriggerFocus
	TriggerManual = overlay.TriggerManual
)

// ParseTriggerMode reads a mode token, falling back to TriggerClick.
var ParseTriggerMode = overlay.ParseTriggerMode

// =============================================================================
// Placement (re-export from pkg/anchor)
// =============================================================================

// Placement is a side plus an alignment, e.g. {bottom, start}.
type Placement = anchor.Placement

// Side is the boundary side the floating element sits on.
type Side = anchor.Side

// Align is the alignment along that side.
type Align = anchor.Align

// Sides and alignments.
const (
	SideBottom = anchor.SideBottom
	SideTop    = anchor.SideTop
	SideRight  = anchor.SideRight
	SideLeft   = anchor.SideLeft

	AlignCenter = anchor.AlignCenter
	AlignStart  = anchor.AlignStart
	AlignEnd    = anchor.AlignEnd
)

// DefaultPlacement is {bottom, center}.
var DefaultPlacement = anchor.DefaultPlacement

// ParsePlacement reads a combined token like "top-end". Unrecognized input
// falls back to DefaultPlacement.
var ParsePlacement = anchor.ParsePlacement

// Compute positions a floating rectangle against a trigger rectangle without
// any overlay machinery. Most callers want an Overlay instead.
var Compute = anchor.Compute

// PositionConfig controls one Compute call.
type PositionConfig = anchor.Config

// PositionResult is the outcome of one Compute call.
type PositionResult = anchor.Result

// =============================================================================
// Remote sessions (re-export from pkg/remote)
// =============================================================================

// Server runs one engine session per WebSocket connection.
type Server = remote.Server

// ServerConfig configures a Server.
type ServerConfig = remote.Config

// NewServer creates a session server. A nil config uses defaults.
var NewServer = remote.New

// DefaultServerConfig returns the default server configuration.
var DefaultServerConfig = remote.DefaultConfig

// Client is a host-side connection for tools and tests.
type Client = remote.Client

// Dial connects to a session server and performs the handshake.
var Dial = remote.Dial
