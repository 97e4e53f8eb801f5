// Package dom is the boundary between the engine and its host environment.
//
// The engine never talks to a real UI toolkit or browser. Hosts describe
// their world through the Element interface, feed input through
// Document.Dispatch, and observe engine intent through focus requests and
// the styles and attributes published by higher-level packages. Everything
// in between (shared event dispatch, microtask ordering, timers, the
// instance state arena) lives here.
//
// A Document and all components scoped to it belong to a single goroutine.
// Hosts that receive events on other goroutines marshal them onto that
// goroutine first; pkg/remote does this with a work channel.
package dom
