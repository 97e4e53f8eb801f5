package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/buoy-ui/buoy/pkg/anchor"
	"github.com/buoy-ui/buoy/pkg/geom"
	"github.com/buoy-ui/buoy/pkg/protocol"
	"github.com/buoy-ui/buoy/pkg/remote"
)

func benchCmd() *cobra.Command {
	var (
		scenarioPath string
		iterations   int
		sessions     int
		duration     time.Duration
		jsonOutput   string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark positioning and the wire protocol",
		Long: `Benchmark the positioning pipeline and, optionally, full sessions.

The compute workload replays anchor.Compute over a set of scenarios and
reports per-call latency. With --sessions the wire workload also starts
an in-process server and drives concurrent sessions through open/close
round trips over WebSocket.

Scenarios come from a YAML file or from a built-in set:

  scenarios:
    - name: tooltip
      placement: top
      offset: 8
      flip: true
      shift: true
      trigger: {left: 472, top: 369, width: 80, height: 30}
      floating: {width: 160, height: 40}
      boundary: {width: 1024, height: 768}

Examples:
  buoy bench
  buoy bench --scenarios bench.yaml --iterations 500000
  buoy bench --sessions 100 --duration 30s --json report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(scenarioPath, iterations, sessions, duration, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenarios", "", "YAML scenario file (default: built-in set)")
	cmd.Flags().IntVar(&iterations, "iterations", 200000, "Compute calls per scenario")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "Concurrent wire sessions (0 skips the wire workload)")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "Wire workload duration")
	cmd.Flags().StringVar(&jsonOutput, "json", "-", "JSON report path ('-' for stdout)")

	return cmd
}

// benchScenario is one positioning workload read from YAML.
type benchScenario struct {
	Name      string    `yaml:"name"`
	Placement string    `yaml:"placement"`
	Offset    float64   `yaml:"offset"`
	Skidding  float64   `yaml:"skidding"`
	Flip      bool      `yaml:"flip"`
	Shift     bool      `yaml:"shift"`
	Size      bool      `yaml:"size"`
	Arrow     bool      `yaml:"arrow"`
	Trigger   benchRect `yaml:"trigger"`
	Floating  benchSize `yaml:"floating"`
	Boundary  benchSize `yaml:"boundary"`
}

type benchRect struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type benchSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type benchFile struct {
	Scenarios []benchScenario `yaml:"scenarios"`
}

// defaultScenarios mirrors the common overlay shapes: a small tooltip, a
// popover that has to flip near the bottom edge, a wide menu that has to
// shift near the right edge, and a centered dialog.
func defaultScenarios() []benchScenario {
	return []benchScenario{
		{
			Name: "tooltip", Placement: "top", Offset: 8, Flip: true, Shift: true,
			Trigger:  benchRect{Left: 472, Top: 369, Width: 80, Height: 30},
			Floating: benchSize{Width: 160, Height: 40},
			Boundary: benchSize{Width: 1024, Height: 768},
		},
		{
			Name: "popover-flip", Placement: "bottom", Offset: 4, Flip: true, Shift: true, Arrow: true,
			Trigger:  benchRect{Left: 472, Top: 700, Width: 80, Height: 30},
			Floating: benchSize{Width: 240, Height: 180},
			Boundary: benchSize{Width: 1024, Height: 768},
		},
		{
			Name: "menu-shift", Placement: "bottom-start", Flip: true, Shift: true, Size: true,
			Trigger:  benchRect{Left: 940, Top: 60, Width: 60, Height: 30},
			Floating: benchSize{Width: 280, Height: 320},
			Boundary: benchSize{Width: 1024, Height: 768},
		},
		{
			Name: "dialog", Placement: "bottom", Flip: true, Shift: true,
			Trigger:  benchRect{Left: 432, Top: 200, Width: 160, Height: 40},
			Floating: benchSize{Width: 480, Height: 360},
			Boundary: benchSize{Width: 1024, Height: 768},
		},
	}
}

func loadScenarios(path string) ([]benchScenario, error) {
	if path == "" {
		return defaultScenarios(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios: %w", err)
	}
	var file benchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("%s contains no scenarios", path)
	}
	for i := range file.Scenarios {
		if file.Scenarios[i].Name == "" {
			file.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i)
		}
	}
	return file.Scenarios, nil
}

func (sc *benchScenario) config() anchor.Config {
	return anchor.Config{
		Placement: anchor.ParsePlacement(sc.Placement),
		Offset:    sc.Offset,
		Skidding:  sc.Skidding,
		Flip:      sc.Flip,
		Shift:     sc.Shift,
		Size:      sc.Size,
		Arrow:     sc.Arrow,
		ArrowSize: geom.Size{Width: 12, Height: 6},
		Boundary:  geom.Rect{Width: sc.Boundary.Width, Height: sc.Boundary.Height},
	}
}

func (sc *benchScenario) rects() (trigger, floating geom.Rect) {
	trigger = geom.Rect{
		Left: sc.Trigger.Left, Top: sc.Trigger.Top,
		Width: sc.Trigger.Width, Height: sc.Trigger.Height,
	}
	floating = geom.Rect{Width: sc.Floating.Width, Height: sc.Floating.Height}
	return trigger, floating
}

func runBench(scenarioPath string, iterations, sessions int, duration time.Duration, jsonOutput string) error {
	if iterations <= 0 {
		return fmt.Errorf("--iterations must be > 0")
	}
	if sessions < 0 {
		return fmt.Errorf("--sessions must be >= 0")
	}

	scenarios, err := loadScenarios(scenarioPath)
	if err != nil {
		return err
	}

	report := benchReport{
		Version: "1",
		Run: benchRunInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
		},
	}

	for i := range scenarios {
		report.Compute = append(report.Compute, runComputeBench(&scenarios[i], iterations))
	}

	if sessions > 0 {
		wire, err := runWireBench(context.Background(), &scenarios[0], sessions, duration)
		if err != nil {
			return err
		}
		report.Wire = wire
	}

	writeBenchSummary(os.Stderr, &report)
	return writeBenchJSON(jsonOutput, &report)
}

// computeSink keeps the compiler from eliding the measured calls.
var computeSink anchor.Result

func runComputeBench(sc *benchScenario, iterations int) benchComputeResult {
	cfg := sc.config()
	trigger, floating := sc.rects()

	// The trigger slides across the boundary so each call sees fresh
	// geometry, the way scroll replay does.
	stepX := (cfg.Boundary.Width - trigger.Width) / float64(iterations+1)
	stepY := (cfg.Boundary.Height - trigger.Height) / float64(iterations+1)

	for i := 0; i < 1000; i++ {
		computeSink = anchor.Compute(trigger, floating, cfg)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	samples := make([]time.Duration, 0, iterations)
	var flipped, hidden uint64

	t := trigger
	start := time.Now()
	for i := 0; i < iterations; i++ {
		t.Left = stepX * float64(i)
		t.Top = stepY * float64(i)

		callStart := time.Now()
		res := anchor.Compute(t, floating, cfg)
		samples = append(samples, time.Since(callStart))

		computeSink = res
		if res.Flipped {
			flipped++
		}
		if res.Hidden {
			hidden++
		}
	}
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	nsPerOp := float64(elapsed.Nanoseconds()) / float64(iterations)
	return benchComputeResult{
		Scenario:   sc.Name,
		Iterations: iterations,
		NsPerOp:    nsPerOp,
		OpsPerSec:  float64(iterations) / math.Max(0.000001, elapsed.Seconds()),
		Flipped:    flipped,
		Hidden:     hidden,
		AllocMB:    float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
		LatencyNS: benchLatency{
			Min: float64(samples[0].Nanoseconds()),
			P50: float64(percentileDuration(samples, 0.50).Nanoseconds()),
			P95: float64(percentileDuration(samples, 0.95).Nanoseconds()),
			P99: float64(percentileDuration(samples, 0.99).Nanoseconds()),
			Max: float64(samples[len(samples)-1].Nanoseconds()),
		},
	}
}

type wireCounters struct {
	toggles     atomic.Uint64
	patchFrames atomic.Uint64
	patches     atomic.Uint64
	errors      atomic.Uint64
}

// runWireBench starts an in-process server and fans out concurrent sessions,
// each toggling an overlay open and closed for the full duration.
func runWireBench(ctx context.Context, sc *benchScenario, sessions int, duration time.Duration) (*benchWireResult, error) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := remote.New(&remote.Config{
		Logger:      discard,
		CheckOrigin: func(r *http.Request) bool { return true },
	})

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	httpServer := &http.Server{Handler: srv.Router()}
	go func() {
		_ = httpServer.Serve(ln)
	}()
	defer func() {
		_ = httpServer.Shutdown(context.Background())
	}()

	wsURL := "ws://" + ln.Addr().String() + "/ws"

	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	samplesCh := make(chan time.Duration, sessions*4+1024)
	var samples []time.Duration
	var samplesMu sync.Mutex
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for rtt := range samplesCh {
			samplesMu.Lock()
			samples = append(samples, rtt)
			samplesMu.Unlock()
		}
	}()

	var counters wireCounters
	start := time.Now()

	g := new(errgroup.Group)
	for i := 0; i < sessions; i++ {
		g.Go(func() error {
			if err := runWireSession(runCtx, wsURL, sc, &counters, samplesCh); err != nil {
				counters.errors.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	close(samplesCh)
	<-collectorDone

	elapsed := time.Since(start)

	samplesMu.Lock()
	latencies := append([]time.Duration(nil), samples...)
	samplesMu.Unlock()
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	toggles := counters.toggles.Load()
	result := &benchWireResult{
		Sessions:      sessions,
		DurationMS:    duration.Milliseconds(),
		Toggles:       toggles,
		TogglesPerSec: float64(toggles) / math.Max(0.001, elapsed.Seconds()),
		PatchFrames:   counters.patchFrames.Load(),
		Patches:       counters.patches.Load(),
		Errors:        counters.errors.Load(),
	}
	if len(latencies) > 0 {
		result.LatencyMS = benchLatency{
			Min: msFloat(latencies[0]),
			P50: msFloat(percentileDuration(latencies, 0.50)),
			P95: msFloat(percentileDuration(latencies, 0.95)),
			P99: msFloat(percentileDuration(latencies, 0.99)),
			Max: msFloat(latencies[len(latencies)-1]),
		}
	}
	return result, nil
}

// runWireSession drives one session: handshake, geometry, bind, then
// open/close round trips until the context expires.
func runWireSession(ctx context.Context, wsURL string, sc *benchScenario, counters *wireCounters, samples chan<- time.Duration) error {
	hello := protocol.NewHello(uint16(sc.Boundary.Width), uint16(sc.Boundary.Height))
	client, err := remote.Dial(ctx, wsURL, hello)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer client.Close()

	err = client.SendGeometry(&protocol.GeometryFrame{
		Updates: []protocol.ElementGeometry{
			{
				ID: "trigger", X: sc.Trigger.Left, Y: sc.Trigger.Top,
				Width: sc.Trigger.Width, Height: sc.Trigger.Height, Focusable: true,
			},
			{
				ID: "panel",
				Width: sc.Floating.Width, Height: sc.Floating.Height,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("geometry: %w", err)
	}

	err = client.Bind(&protocol.BindRequest{
		Op:        protocol.BindCreate,
		OverlayID: "bench",
		Trigger:   "trigger",
		Floating:  "panel",
		Options: protocol.BindOptions{
			Mode:                      protocol.BindModeClick,
			Placement:                 sc.Placement,
			Offset:                    sc.Offset,
			Flip:                      sc.Flip,
			Shift:                     sc.Shift,
			CloseOnEscape:             true,
			CloseOnPointerDownOutside: true,
		},
	})
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}

	cx := sc.Trigger.Left + sc.Trigger.Width/2
	cy := sc.Trigger.Top + sc.Trigger.Height/2

	// A point clear of both the trigger and a panel on any side of it.
	outsideX := sc.Boundary.Width - 4
	outsideY := 4.0
	if sc.Trigger.Left+sc.Trigger.Width > sc.Boundary.Width/2 {
		outsideX = 4
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		if err := clickAt(client, "trigger", cx, cy); err != nil {
			return err
		}
		if err := waitForOverlayState(ctx, client, "panel", "open", counters); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := clickAt(client, "", outsideX, outsideY); err != nil {
			return err
		}
		if err := waitForOverlayState(ctx, client, "panel", "closed", counters); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		counters.toggles.Add(1)
		select {
		case samples <- time.Since(start):
		default:
		}
	}
}

func clickAt(client *remote.Client, target string, x, y float64) error {
	if err := client.PointerDown(target, x, y); err != nil {
		return err
	}
	return client.PointerUp(target, x, y)
}

// waitForOverlayState reads patch frames until the floating element reports
// the wanted data-state.
func waitForOverlayState(ctx context.Context, client *remote.Client, floating, state string, counters *wireCounters) error {
	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("no %q state within deadline", state)
		}
		pf, err := client.ReadPatches(remaining)
		if err != nil {
			return err
		}
		counters.patchFrames.Add(1)
		counters.patches.Add(uint64(len(pf.Patches)))
		for _, p := range pf.Patches {
			if p.Op == protocol.PatchAttr && p.Target == floating && p.Key == "data-state" && p.Value == state {
				return nil
			}
		}
	}
}

type benchReport struct {
	Version string               `json:"version"`
	Run     benchRunInfo         `json:"run"`
	Compute []benchComputeResult `json:"compute"`
	Wire    *benchWireResult     `json:"wire,omitempty"`
}

type benchRunInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
}

type benchComputeResult struct {
	Scenario   string       `json:"scenario"`
	Iterations int          `json:"iterations"`
	NsPerOp    float64      `json:"ns_per_op"`
	OpsPerSec  float64      `json:"ops_per_sec"`
	Flipped    uint64       `json:"flipped"`
	Hidden     uint64       `json:"hidden"`
	AllocMB    float64      `json:"alloc_mb"`
	LatencyNS  benchLatency `json:"latency_ns"`
}

type benchWireResult struct {
	Sessions      int          `json:"sessions"`
	DurationMS    int64        `json:"duration_ms"`
	Toggles       uint64       `json:"toggles_total"`
	TogglesPerSec float64      `json:"toggles_per_sec"`
	PatchFrames   uint64       `json:"patch_frames_total"`
	Patches       uint64       `json:"patches_total"`
	Errors        uint64       `json:"errors_total"`
	LatencyMS     benchLatency `json:"latency_ms"`
}

type benchLatency struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

func percentileDuration(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func msFloat(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func writeBenchSummary(w io.Writer, report *benchReport) {
	fmt.Fprintln(w, "=== Buoy Benchmark ===")
	fmt.Fprintf(w, "Go: %s  %s/%s  %d CPUs\n", report.Run.Go, report.Run.OS, report.Run.Arch, report.Run.CPUCount)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Compute (anchor.Compute per call):")
	for _, c := range report.Compute {
		fmt.Fprintf(w, "  %-14s %9.0f ns/op  %10.0f ops/s  p99 %6.0f ns  flips %d  hidden %d\n",
			c.Scenario, c.NsPerOp, c.OpsPerSec, c.LatencyNS.P99, c.Flipped, c.Hidden)
	}
	fmt.Fprintln(w)

	if report.Wire == nil {
		return
	}
	wr := report.Wire
	fmt.Fprintf(w, "Wire (%d sessions, %s):\n", wr.Sessions, time.Duration(wr.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "  toggles: %d (%.1f/s)\n", wr.Toggles, wr.TogglesPerSec)
	fmt.Fprintf(w, "  patch frames: %d (%d patches)\n", wr.PatchFrames, wr.Patches)
	fmt.Fprintf(w, "  errors: %d\n", wr.Errors)
	if wr.LatencyMS.Max > 0 {
		fmt.Fprintln(w, "  RTT (open+close round trip):")
		fmt.Fprintf(w, "    min: %.2f ms\n", wr.LatencyMS.Min)
		fmt.Fprintf(w, "    p50: %.2f ms\n", wr.LatencyMS.P50)
		fmt.Fprintf(w, "    p95: %.2f ms\n", wr.LatencyMS.P95)
		fmt.Fprintf(w, "    p99: %.2f ms\n", wr.LatencyMS.P99)
		fmt.Fprintf(w, "    max: %.2f ms\n", wr.LatencyMS.Max)
	}
	fmt.Fprintln(w)
}

func writeBenchJSON(path string, report *benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
