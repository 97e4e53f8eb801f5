package remote

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/buoy-ui/buoy/pkg/protocol"
)

// Client is a host-side connection for tools and tests. It speaks the wire
// protocol but renders nothing; callers inspect the patch frames themselves.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	seq     atomic.Uint64

	// Welcome is the server's handshake answer.
	Welcome *protocol.Welcome
}

// Dial connects to a session server, performs the handshake, and returns a
// ready client. A nil hello announces a 1024x768 viewport. The context
// bounds dialing and the handshake.
func Dial(ctx context.Context, url string, hello *protocol.Hello) (*Client, error) {
	if hello == nil {
		hello = protocol.NewHello(1024, 768)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: dialing %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c := &Client{conn: conn}
	if err := c.Send(protocol.FrameHello, protocol.EncodeHello(hello)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: sending hello: %w", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	conn.SetReadDeadline(deadline)
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: reading welcome: %w", err)
	}
	frame, err := protocol.DecodeFrame(data)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: decoding welcome frame: %w", err)
	}
	if frame.Type != protocol.FrameWelcome {
		conn.Close()
		return nil, fmt.Errorf("remote: first frame was %s, want Welcome", frame.Type)
	}
	welcome, err := protocol.DecodeWelcome(frame.Payload)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: decoding welcome: %w", err)
	}
	if welcome.Status != protocol.HandshakeOK {
		conn.Close()
		return nil, fmt.Errorf("remote: handshake rejected: %s", welcome.Status)
	}

	conn.SetReadDeadline(time.Time{})
	c.Welcome = welcome
	return c, nil
}

// SessionID returns the id the server assigned.
func (c *Client) SessionID() string {
	return c.Welcome.SessionID
}

// NextSeq returns the next event sequence number.
func (c *Client) NextSeq() uint64 {
	return c.seq.Add(1)
}

// Send writes one frame.
func (c *Client) Send(ft protocol.FrameType, payload []byte) error {
	frame := protocol.NewFrame(ft, payload)
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
}

// SendGeometry sends a geometry batch.
func (c *Client) SendGeometry(gf *protocol.GeometryFrame) error {
	return c.Send(protocol.FrameGeometry, protocol.EncodeGeometry(gf))
}

// SendEvent sends an input event. A zero Seq is stamped with the next
// sequence number.
func (c *Client) SendEvent(ef *protocol.EventFrame) error {
	if ef.Seq == 0 {
		ef.Seq = c.NextSeq()
	}
	return c.Send(protocol.FrameEvent, protocol.EncodeEvent(ef))
}

// PointerDown sends a pointer-down at the given point. An empty target means
// untracked surface.
func (c *Client) PointerDown(target string, x, y float64) error {
	return c.SendEvent(protocol.NewPointerEvent(0, protocol.EventPointerDown, target, x, y))
}

// PointerUp sends a pointer-up at the given point.
func (c *Client) PointerUp(target string, x, y float64) error {
	return c.SendEvent(protocol.NewPointerEvent(0, protocol.EventPointerUp, target, x, y))
}

// PointerEnter sends a pointer-enter on the target.
func (c *Client) PointerEnter(target string, x, y float64) error {
	return c.SendEvent(protocol.NewPointerEvent(0, protocol.EventPointerEnter, target, x, y))
}

// PointerLeave sends a pointer-leave off the target.
func (c *Client) PointerLeave(target string, x, y float64) error {
	return c.SendEvent(protocol.NewPointerEvent(0, protocol.EventPointerLeave, target, x, y))
}

// KeyDown sends a key-down.
func (c *Client) KeyDown(target, key string) error {
	return c.SendEvent(protocol.NewKeyEvent(0, protocol.EventKeyDown, target, key, key))
}

// FocusIn reports focus landing on the target.
func (c *Client) FocusIn(target string) error {
	return c.SendEvent(protocol.NewFocusEvent(0, protocol.EventFocusIn, target))
}

// FocusOut reports focus leaving the target.
func (c *Client) FocusOut(target string) error {
	return c.SendEvent(protocol.NewFocusEvent(0, protocol.EventFocusOut, target))
}

// Bind sends a bind request.
func (c *Client) Bind(req *protocol.BindRequest) error {
	return c.Send(protocol.FrameBind, protocol.EncodeBind(req))
}

// Control sends a control message.
func (c *Client) Control(ct protocol.ControlType, payload any) error {
	return c.Send(protocol.FrameControl, protocol.EncodeControl(ct, payload))
}

// ReadFrame returns the next frame within the timeout. Server pings are
// answered and skipped; everything else is returned as is.
func (c *Client) ReadFrame(timeout time.Duration) (*protocol.Frame, error) {
	deadline := time.Now().Add(timeout)
	for {
		c.conn.SetReadDeadline(deadline)
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			return nil, err
		}

		if frame.Type == protocol.FrameControl {
			if ct, payload, err := protocol.DecodeControl(frame.Payload); err == nil && ct == protocol.ControlPing {
				ts := uint64(0)
				if pp, ok := payload.(*protocol.PingPong); ok {
					ts = pp.Timestamp
				}
				pong, pp := protocol.NewPong(ts)
				if err := c.Control(pong, pp); err != nil {
					return nil, err
				}
				continue
			}
		}
		return frame, nil
	}
}

// ReadPatches returns the next patch frame within the timeout. Error frames
// and close notices surface as errors; pongs are skipped.
func (c *Client) ReadPatches(timeout time.Duration) (*protocol.PatchFrame, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("remote: no patch frame within %s", timeout)
		}
		frame, err := c.ReadFrame(remaining)
		if err != nil {
			return nil, err
		}

		switch frame.Type {
		case protocol.FramePatch:
			return protocol.DecodePatchFrame(frame.Payload)

		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(frame.Payload)
			if err != nil {
				return nil, err
			}
			return nil, em

		case protocol.FrameControl:
			ct, payload, err := protocol.DecodeControl(frame.Payload)
			if err != nil {
				return nil, err
			}
			if ct == protocol.ControlClose {
				cm, _ := payload.(*protocol.CloseMessage)
				if cm == nil {
					cm = &protocol.CloseMessage{}
				}
				return nil, fmt.Errorf("remote: closed by server: %s (%s)", cm.Reason, cm.Message)
			}
			// Pongs and unknown control kinds are skipped.
		}
	}
}

// Close tells the server the session is done and closes the connection.
func (c *Client) Close() error {
	ct, cm := protocol.NewClose(protocol.CloseGoingAway, "client closing")
	c.Control(ct, cm)

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	return c.conn.Close()
}
