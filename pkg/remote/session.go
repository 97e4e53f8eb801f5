package remote

import (
	stderrors "errors"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/buoy-ui/buoy/internal/errors"
	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/dom"
	"github.com/buoy-ui/buoy/pkg/geom"
	"github.com/buoy-ui/buoy/pkg/middleware"
	"github.com/buoy-ui/buoy/pkg/overlay"
	"github.com/buoy-ui/buoy/pkg/protocol"
)

var errSessionClosed = stderrors.New("remote: session closed")

// binding ties a wire overlay id to its engine overlay and the element ids
// its patches are addressed to.
type binding struct {
	id       string
	trigger  string
	floating string
	overlay  *overlay.Overlay
}

// Session is one connected host: a document, a mirror of the host's
// elements, and the overlays bound over the wire.
//
// Everything below the connection fields belongs to the run goroutine.
type Session struct {
	ID        string
	CreatedAt time.Time

	srv  *Server
	conn *websocket.Conn

	writeMu sync.Mutex
	closed  atomic.Bool
	done    chan struct{}

	sendSeq atomic.Uint64
	recvSeq atomic.Uint64

	doc      *dom.Document
	root     *dom.Node
	nodes    map[string]*dom.Node
	bindings map[string]*binding
	pending  []protocol.Patch

	frames chan *protocol.Frame
	work   chan func()

	logger *slog.Logger
}

// newSession builds the session and its document. The document's clock posts
// timer callbacks into the work channel so they run on the session loop.
func newSession(srv *Server, conn *websocket.Conn, hello *protocol.Hello) *Session {
	id := hello.SessionID
	if id == "" {
		id = generateSessionID()
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		srv:       srv,
		conn:      conn,
		done:      make(chan struct{}),
		root:      dom.NewNode(""),
		nodes:     make(map[string]*dom.Node),
		bindings:  make(map[string]*binding),
		frames:    make(chan *protocol.Frame, srv.cfg.FrameQueue),
		work:      make(chan func(), srv.cfg.WorkQueue),
		logger:    srv.logger.With("session_id", id),
	}

	s.doc = dom.NewDocument(
		dom.WithClock(dom.NewSystemClock(s.post)),
		dom.WithLogger(s.logger),
		dom.WithMetrics(srv.cfg.Metrics),
		dom.WithViewport(geom.Size{
			Width:  float64(hello.ViewportW),
			Height: float64(hello.ViewportH),
		}),
	)
	if srv.cfg.Metrics != nil {
		s.doc.Use(middleware.Metrics(srv.cfg.Metrics))
	}
	for _, mw := range srv.cfg.Middleware {
		s.doc.Use(mw)
	}
	s.doc.OnFocusRequest(func(el dom.Element) {
		s.pending = append(s.pending, protocol.NewFocusPatch(el.ID()))
	})
	return s
}

// post marshals a timer callback onto the run loop. Callbacks arriving after
// shutdown are dropped.
func (s *Session) post(fn func()) {
	select {
	case s.work <- fn:
	case <-s.done:
	}
}

func (s *Session) start() {
	go s.readLoop()
	go s.run()
}

// readLoop decodes incoming messages and forwards them to the run loop. It
// owns nothing but the socket read side.
func (s *Session) readLoop() {
	defer s.shutdown()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.srv.cfg.ReadTimeout))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.srv.cfg.Metrics.SessionError("invalid_frame")
			s.sendError(protocol.ErrInvalidFrame, errors.New("E041").Error(), false)
			continue
		}
		s.srv.cfg.Metrics.FrameReceived()

		select {
		case s.frames <- frame:
		case <-s.done:
			return
		}
	}
}

// run is the session loop. Frames, timer callbacks, and pings are serialized
// here; this goroutine is the only one touching the document.
func (s *Session) run() {
	ticker := time.NewTicker(s.srv.cfg.PingInterval)
	defer ticker.Stop()
	defer s.teardown()

	for {
		select {
		case frame := <-s.frames:
			s.perform(frame.Type.String(), func() { s.handleFrame(frame) })
		case fn := <-s.work:
			s.perform("timer", fn)
		case <-ticker.C:
			s.sendPing()
		case <-s.done:
			return
		}
	}
}

// perform runs one unit of work with panic recovery, then flushes the
// patches it produced.
func (s *Session) perform(op string, fn func()) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("session panic",
					"op", op,
					"panic", r,
					"stack", string(debug.Stack()))
				s.srv.cfg.Metrics.SessionError("panic")
				s.sendError(protocol.ErrServerError, "internal error", false)
			}
		}()
		fn()
	}()
	s.flush()
}

func (s *Session) handleFrame(frame *protocol.Frame) {
	switch frame.Type {
	case protocol.FrameGeometry:
		s.handleGeometry(frame.Payload)
	case protocol.FrameEvent:
		s.handleEvent(frame.Payload)
	case protocol.FrameBind:
		s.handleBind(frame.Payload)
	case protocol.FrameControl:
		s.handleControl(frame.Payload)
	case protocol.FrameError:
		if em, err := protocol.DecodeErrorMessage(frame.Payload); err == nil {
			s.logger.Warn("client reported error",
				"code", em.Code.String(),
				"message", em.Message,
				"fatal", em.Fatal)
		}
	case protocol.FrameHello:
		s.sendError(protocol.ErrInvalidFrame, "unexpected Hello after handshake", false)
	default:
		s.logger.Debug("ignoring frame", "type", frame.Type.String())
	}
}

// handleGeometry applies a geometry batch to the element mirror: updates,
// then reparenting, then removals.
func (s *Session) handleGeometry(payload []byte) {
	gf, err := protocol.DecodeGeometry(payload)
	if err != nil {
		s.srv.cfg.Metrics.SessionError("invalid_geometry")
		s.sendError(protocol.ErrInvalidFrame, errors.New("E041").Error(), false)
		return
	}

	for i := range gf.Updates {
		g := &gf.Updates[i]
		n := s.nodes[g.ID]
		if n == nil {
			n = dom.NewNode(g.ID)
			s.nodes[g.ID] = n
		}
		n.At(g.X, g.Y, g.Width, g.Height).
			SetFocusable(g.Focusable).
			SetDisabled(g.Disabled).
			SetText(g.Text).
			ClearMarkers().
			Mark(g.Markers...)
	}

	// Parent after every update has landed so order within the batch does
	// not matter. Reparenting only on change keeps sibling order stable.
	for i := range gf.Updates {
		g := &gf.Updates[i]
		n := s.nodes[g.ID]
		parent := s.root
		if g.ParentID != "" {
			if p := s.nodes[g.ParentID]; p != nil {
				parent = p
			} else {
				s.logger.Debug("unknown parent, attaching at root",
					"id", g.ID, "parent", g.ParentID)
			}
		}
		if cur, ok := n.Parent().(*dom.Node); !ok || cur != parent {
			parent.Append(n)
		}
	}

	for _, id := range gf.Removed {
		if n := s.nodes[id]; n != nil {
			s.dropSubtree(n)
		}
	}
	if len(gf.Removed) > 0 {
		s.dropOrphanedBindings()
	}
}

// dropSubtree detaches a node and forgets it and all its descendants.
func (s *Session) dropSubtree(n *dom.Node) {
	children := append([]*dom.Node(nil), n.Children()...)
	for _, c := range children {
		s.dropSubtree(c)
	}
	if p, ok := n.Parent().(*dom.Node); ok {
		p.Remove(n)
	}
	delete(s.nodes, n.ID())
}

// dropOrphanedBindings destroys bindings whose trigger or floating element
// was removed from the mirror.
func (s *Session) dropOrphanedBindings() {
	for id, b := range s.bindings {
		if s.nodes[b.trigger] == nil || s.nodes[b.floating] == nil {
			s.logger.Warn("destroying binding, element removed", "overlay_id", id)
			b.overlay.Destroy()
			delete(s.bindings, id)
		}
	}
}

// handleEvent translates a wire event and dispatches it into the document.
func (s *Session) handleEvent(payload []byte) {
	ef, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.srv.cfg.Metrics.SessionError("invalid_event")
		s.sendError(protocol.ErrInvalidEvent, errors.New("E041").Error(), false)
		return
	}
	s.recvSeq.Store(ef.Seq)

	var target dom.Element
	if ef.Target != "" {
		n := s.nodes[ef.Target]
		if n == nil {
			s.srv.cfg.Metrics.SessionError("unknown_target")
			s.sendError(protocol.ErrUnknownTarget,
				errors.New("E022").Error()+": "+ef.Target, false)
			return
		}
		target = n
	}

	ev := translateEvent(ef, target)
	if ev == nil {
		s.sendError(protocol.ErrInvalidEvent, "unhandled event type", false)
		return
	}
	s.doc.Dispatch(ev)
}

// translateEvent maps a decoded wire event onto the document event types.
// The wire modifier bits share the document's layout.
func translateEvent(ef *protocol.EventFrame, target dom.Element) dom.Event {
	switch ef.Type {
	case protocol.EventPointerDown, protocol.EventPointerUp, protocol.EventPointerMove,
		protocol.EventPointerEnter, protocol.EventPointerLeave:
		var d protocol.PointerData
		if pd, ok := ef.Payload.(*protocol.PointerData); ok {
			d = *pd
		}
		return dom.PointerEvent{
			Kind:   pointerKind(ef.Type),
			Target: target,
			Point:  geom.Point{X: d.X, Y: d.Y},
			Button: dom.Button(d.Button),
			Mods:   dom.Modifiers(d.Modifiers),
		}

	case protocol.EventKeyDown, protocol.EventKeyUp:
		var d protocol.KeyData
		if kd, ok := ef.Payload.(*protocol.KeyData); ok {
			d = *kd
		}
		kind := dom.KeyDown
		if ef.Type == protocol.EventKeyUp {
			kind = dom.KeyUp
		}
		return &dom.KeyEvent{
			Kind:   kind,
			Target: target,
			Key:    d.Key,
			Code:   d.Code,
			Mods:   dom.Modifiers(d.Modifiers),
			Repeat: d.Repeat,
		}

	case protocol.EventFocusIn:
		return dom.FocusEvent{Kind: dom.FocusIn, Target: target}
	case protocol.EventFocusOut:
		return dom.FocusEvent{Kind: dom.FocusOut, Target: target}

	case protocol.EventScroll:
		var d protocol.ScrollData
		if sd, ok := ef.Payload.(*protocol.ScrollData); ok {
			d = *sd
		}
		return dom.ScrollEvent{Target: target, Left: d.Left, Top: d.Top}

	case protocol.EventResize:
		var d protocol.ResizeData
		if rd, ok := ef.Payload.(*protocol.ResizeData); ok {
			d = *rd
		}
		return dom.ResizeEvent{Size: geom.Size{Width: d.Width, Height: d.Height}}

	case protocol.EventTransitionEnd, protocol.EventTransitionCancel:
		var d protocol.TransitionData
		if td, ok := ef.Payload.(*protocol.TransitionData); ok {
			d = *td
		}
		kind := dom.TransitionEnd
		if ef.Type == protocol.EventTransitionCancel {
			kind = dom.TransitionCancel
		}
		return dom.TransitionEvent{
			Kind:     kind,
			Target:   target,
			Property: d.Property,
			Elapsed:  time.Duration(d.ElapsedMs) * time.Millisecond,
		}
	}
	return nil
}

func pointerKind(et protocol.EventType) dom.PointerKind {
	switch et {
	case protocol.EventPointerUp:
		return dom.PointerUp
	case protocol.EventPointerMove:
		return dom.PointerMove
	case protocol.EventPointerEnter:
		return dom.PointerEnter
	case protocol.EventPointerLeave:
		return dom.PointerLeave
	default:
		return dom.PointerDown
	}
}

func (s *Session) handleBind(payload []byte) {
	req, err := protocol.DecodeBind(payload)
	if err != nil {
		s.srv.cfg.Metrics.SessionError("invalid_bind")
		s.sendError(protocol.ErrInvalidBind, errors.New("E041").Error(), false)
		return
	}

	switch req.Op {
	case protocol.BindCreate:
		s.bindCreate(req)
	case protocol.BindDestroy:
		s.bindDestroy(req.OverlayID)
	}
}

func (s *Session) bindCreate(req *protocol.BindRequest) {
	if _, exists := s.bindings[req.OverlayID]; exists {
		s.sendError(protocol.ErrInvalidBind,
			errors.New("E020").Error()+": "+req.OverlayID, false)
		return
	}

	trigger := s.nodes[req.Trigger]
	floating := s.nodes[req.Floating]
	if trigger == nil || floating == nil {
		missing := req.Trigger
		if trigger != nil {
			missing = req.Floating
		}
		s.sendError(protocol.ErrUnknownTarget,
			errors.New("E022").Error()+": "+missing, false)
		return
	}

	b := &binding{id: req.OverlayID, trigger: req.Trigger, floating: req.Floating}
	opts := s.overlayOptions(&req.Options)
	opts.OnUpdate = func(u overlay.Update) { s.queueUpdate(b, u) }

	ov, err := overlay.New(s.doc, trigger, floating, opts)
	if err != nil {
		s.sendError(protocol.ErrInvalidBind, err.Error(), false)
		return
	}
	b.overlay = ov
	s.bindings[req.OverlayID] = b
	s.logger.Debug("binding created",
		"overlay_id", req.OverlayID,
		"mode", req.Options.Mode.String(),
		"trigger", req.Trigger,
		"floating", req.Floating)
}

func (s *Session) bindDestroy(id string) {
	b := s.bindings[id]
	if b == nil {
		s.sendError(protocol.ErrUnknownOverlay,
			errors.New("E021").Error()+": "+id, false)
		return
	}
	b.overlay.Destroy()
	delete(s.bindings, id)
	s.logger.Debug("binding destroyed", "overlay_id", id)
}

// overlayOptions translates wire bind options. The wire carries full state:
// every field applies, absent means off.
func (s *Session) overlayOptions(bo *protocol.BindOptions) *overlay.Options {
	opts := &overlay.Options{
		Trigger: triggerMode(bo.Mode),
		Delay: overlay.Delay{
			Show: time.Duration(bo.ShowDelayMs) * time.Millisecond,
			Hide: time.Duration(bo.HideDelayMs) * time.Millisecond,
		},
		Interactive:               bo.Interactive,
		CloseOnEscape:             bo.CloseOnEscape,
		CloseOnPointerDownOutside: bo.CloseOnPointerDownOutside,
		Trap:                      bo.Trap,
		InitialFocusSelector:      bo.InitialFocusSelector,
		ReturnFocus:               bo.ReturnFocus,
		Position: anchor.Config{
			Placement:    anchor.ParsePlacement(bo.Placement),
			Offset:       bo.Offset,
			Skidding:     bo.Skidding,
			Flip:         bo.Flip,
			FlipPadding:  bo.FlipPadding,
			Shift:        bo.Shift,
			ShiftPadding: bo.ShiftPadding,
			Size:         bo.Size,
			Arrow:        bo.Arrow,
			ArrowSize:    geom.Size{Width: bo.ArrowW, Height: bo.ArrowH},
			ArrowPadding: bo.ArrowPadding,
		},
		TransitionProperty: bo.TransitionProperty,
		TransitionDuration: time.Duration(bo.TransitionMs) * time.Millisecond,
	}
	for _, id := range bo.Exclude {
		if n := s.nodes[id]; n != nil {
			opts.Exclude = append(opts.Exclude, n)
		}
	}
	return opts
}

func triggerMode(m protocol.BindMode) overlay.TriggerMode {
	switch m {
	case protocol.BindModeHover:
		return overlay.TriggerHover
	case protocol.BindModeFocus:
		return overlay.TriggerFocus
	case protocol.BindModeManual:
		return overlay.TriggerManual
	default:
		return overlay.TriggerClick
	}
}

func (s *Session) handleControl(payload []byte) {
	ct, data, err := protocol.DecodeControl(payload)
	if err != nil {
		s.sendError(protocol.ErrInvalidFrame, errors.New("E041").Error(), false)
		return
	}

	switch ct {
	case protocol.ControlPing:
		ts := uint64(0)
		if pp, ok := data.(*protocol.PingPong); ok {
			ts = pp.Timestamp
		}
		s.sendPong(ts)

	case protocol.ControlPong:
		// Reaching the read loop already counted as liveness.

	case protocol.ControlShow, protocol.ControlHide, protocol.ControlToggle:
		oc, ok := data.(*protocol.OverlayCommand)
		if !ok {
			return
		}
		b := s.bindings[oc.OverlayID]
		if b == nil {
			s.sendError(protocol.ErrUnknownOverlay,
				errors.New("E021").Error()+": "+oc.OverlayID, false)
			return
		}
		switch ct {
		case protocol.ControlShow:
			b.overlay.Show()
		case protocol.ControlHide:
			b.overlay.Hide()
		case protocol.ControlToggle:
			b.overlay.Toggle()
		}

	case protocol.ControlClose:
		reason, msg := protocol.CloseNormal, ""
		if cm, ok := data.(*protocol.CloseMessage); ok {
			reason, msg = cm.Reason, cm.Message
		}
		s.logger.Info("client closed session",
			"reason", reason.String(), "message", msg)
		s.shutdown()

	default:
		s.logger.Debug("ignoring control", "type", ct.String())
	}
}

// queueUpdate converts an overlay update bundle into wire patches, in sorted
// key order so frames are deterministic.
func (s *Session) queueUpdate(b *binding, u overlay.Update) {
	s.pending = appendStyles(s.pending, b.floating, u.Styles.Popper)
	s.pending = appendStyles(s.pending, ArrowTarget(b.floating), u.Styles.Arrow)
	s.pending = appendAttrs(s.pending, b.floating, u.Attrs.Popper)
	s.pending = appendAttrs(s.pending, b.trigger, u.Attrs.Trigger)
}

func appendStyles(dst []protocol.Patch, target string, styles map[string]string) []protocol.Patch {
	for _, k := range sortedKeys(styles) {
		dst = append(dst, protocol.NewStylePatch(target, k, styles[k]))
	}
	return dst
}

func appendAttrs(dst []protocol.Patch, target string, attrs map[string]string) []protocol.Patch {
	for _, k := range sortedKeys(attrs) {
		dst = append(dst, protocol.NewAttrPatch(target, k, attrs[k]))
	}
	return dst
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ArrowTarget returns the id arrow styles are addressed to for the given
// floating element id.
func ArrowTarget(floatingID string) string {
	return floatingID + "-arrow"
}

// flush sends the pending patches as one sequenced frame.
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	pf := &protocol.PatchFrame{Seq: s.sendSeq.Add(1), Patches: s.pending}
	s.pending = nil

	if err := s.writeFrame(protocol.FramePatch, protocol.FlagSequenced, protocol.EncodePatchFrame(pf)); err != nil {
		if err != errSessionClosed {
			s.logger.Warn("patch write failed", "error", err)
		}
		s.shutdown()
		return
	}
	s.srv.cfg.Metrics.PatchesSent(len(pf.Patches))
}

// writeFrame encodes and writes one frame under the write lock.
func (s *Session) writeFrame(ft protocol.FrameType, flags protocol.FrameFlags, payload []byte) error {
	if s.closed.Load() {
		return errSessionClosed
	}
	frame := protocol.NewFrameWithFlags(ft, flags, payload)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.srv.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}

func (s *Session) sendPing() {
	ct, pp := protocol.NewPing(uint64(time.Now().UnixMilli()))
	if err := s.writeFrame(protocol.FrameControl, 0, protocol.EncodeControl(ct, pp)); err != nil {
		if err != errSessionClosed {
			s.logger.Warn("ping failed", "error", err)
		}
		s.shutdown()
	}
}

func (s *Session) sendPong(timestamp uint64) {
	ct, pp := protocol.NewPong(timestamp)
	if err := s.writeFrame(protocol.FrameControl, 0, protocol.EncodeControl(ct, pp)); err != nil {
		s.shutdown()
	}
}

// sendError reports an error to the host. Safe from any session goroutine.
func (s *Session) sendError(code protocol.ErrorCode, message string, fatal bool) {
	em := protocol.NewError(code, message)
	if fatal {
		em = protocol.NewFatalError(code, message)
	}
	s.writeFrame(protocol.FrameError, 0, protocol.EncodeErrorMessage(em))
}

// Close notifies the host and ends the session. Idempotent and safe from any
// goroutine.
func (s *Session) Close(reason protocol.CloseReason, message string) {
	if s.closed.Load() {
		return
	}
	ct, cm := protocol.NewClose(reason, message)
	s.writeFrame(protocol.FrameControl, 0, protocol.EncodeControl(ct, cm))

	s.writeMu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(s.srv.cfg.WriteTimeout))
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()

	s.shutdown()
}

// shutdown signals both loops to exit. Idempotent.
func (s *Session) shutdown() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
	}
}

// teardown releases everything the session owns. It runs once, after the run
// loop exits, or directly when the handshake fails before the loops start.
func (s *Session) teardown() {
	s.shutdown()
	for id, b := range s.bindings {
		b.overlay.Destroy()
		delete(s.bindings, id)
	}
	s.conn.Close()
	s.srv.removeSession(s)
	s.srv.cfg.Metrics.SessionClosed()
	s.logger.Info("session closed",
		"events", s.recvSeq.Load(),
		"patch_frames", s.sendSeq.Load(),
		"uptime", time.Since(s.CreatedAt).Round(time.Millisecond))
}
