// Package enginetest provides testing helpers for overlay engine code.
//
// The enginetest package reduces boilerplate when testing placement,
// dismissal, and focus behavior by bundling a document with a manual
// clock, fluent node builders, and event shorthands.
//
// # Quick Start
//
//	func TestMenuOpensOnClick(t *testing.T) {
//	    env := enginetest.New(t)
//	    trigger := enginetest.Trigger("open", 100, 100, 80, 30)
//	    panel := enginetest.Panel("menu", 200, 120,
//	        enginetest.MenuItem("copy"),
//	        enginetest.MenuItem("paste"),
//	    )
//
//	    rec := &enginetest.Recorder{}
//	    ov, err := overlay.New(env.Doc, trigger, panel, overlay.Options{
//	        OnUpdate: rec.Record,
//	    })
//	    if err != nil {
//	        t.Fatalf("unexpected error: %v", err)
//	    }
//	    defer ov.Destroy()
//
//	    env.Click(trigger, 110, 110)
//	    enginetest.ExpectState(t, rec, overlay.StateOpen)
//	}
//
// # Manual Time
//
// The environment's clock only moves when told to, so delays and
// transitions are deterministic:
//
//	env.Hover(trigger)
//	env.Advance(150 * time.Millisecond) // show delay elapses
//	enginetest.ExpectState(t, rec, overlay.StateOpen)
//
// # Update Recording
//
// A Recorder captures every emitted update bundle. Assertions read the
// most recent one:
//
//	enginetest.ExpectPopperAttr(t, rec, "data-state", "open")
//	enginetest.ExpectPopperStyle(t, rec, "left", "40px")
package enginetest
