// Junco heap tool - drives the collector with synthetic workloads
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/juncolang/junco/config"
	"github.com/juncolang/junco/gc"
	"github.com/juncolang/junco/inspect"
	"github.com/juncolang/junco/native"
	"github.com/juncolang/junco/object"
	"github.com/juncolang/junco/symbol"
	"github.com/juncolang/junco/telemetry"
)

const listLen = 10

type runOptions struct {
	scenario     string
	objects      int
	cycles       int
	keep         float64
	snapshotPath string
	top          int
	telemetry    bool
}

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (higher is noisier)")
	configDir := flag.String("config", "", "Directory containing junco.toml (default: walk up from the working directory)")
	scenario := flag.String("scenario", "lists", "Workload to run: lists, shared, churn")
	objects := flag.Int("objects", 10000, "Objects allocated per workload cycle")
	cycles := flag.Int("cycles", 10, "Workload cycles to run")
	keep := flag.Float64("keep", 0.1, "Fraction of each cycle's objects kept live")
	snapshotPath := flag.String("snapshot", "", "Write a heap snapshot to this file when done")
	top := flag.Int("top", 0, "Print the N heaviest retainers when done")
	withTelemetry := flag.Bool("telemetry", false, "Record collection cycles to the telemetry store")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: juncogc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Drives the Junco heap with a synthetic allocation workload and reports\n")
		fmt.Fprintf(os.Stderr, "what the collector did.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  juncogc                                  # Default list workload\n")
		fmt.Fprintf(os.Stderr, "  juncogc -scenario churn -objects 50000   # All-garbage churn\n")
		fmt.Fprintf(os.Stderr, "  juncogc -scenario shared -keep 0.5       # Shared tails, half kept\n")
		fmt.Fprintf(os.Stderr, "  juncogc -snapshot heap.snap -top 5       # Snapshot plus heaviest retainers\n")
		fmt.Fprintf(os.Stderr, "  juncogc -telemetry -cycles 100           # Record every cycle to SQLite\n")
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := runOptions{
		scenario:     *scenario,
		objects:      *objects,
		cycles:       *cycles,
		keep:         *keep,
		snapshotPath: *snapshotPath,
		top:          *top,
		telemetry:    *withTelemetry,
	}
	if err := run(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads junco.toml from dir, or walks up from the working
// directory when dir is empty. Without a file the defaults apply.
func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.FindAndLoad(cwd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

func run(cfg *config.Config, opts runOptions) error {
	h := gc.NewWith(cfg.HeapOptions())
	defer h.Close()

	syms := symbol.NewTable(h)
	globals := object.NewEnv(h, nil)
	h.RegisterPersistent(globals)

	reg, err := native.NewRegistry(h, globals)
	if err != nil {
		return err
	}
	if err := bindBuiltins(reg, h); err != nil {
		return err
	}

	var store *telemetry.Store
	var runID string
	if opts.telemetry || cfg.Telemetry.Enabled {
		store, err = telemetry.Open(cfg.Telemetry.Driver, cfg.TelemetryPath())
		if err != nil {
			return err
		}
		defer store.Close()
		runID, err = store.NewRun(context.Background(), opts.scenario)
		if err != nil {
			return err
		}
	}
	installObservers(h, cfg.Heap.VerboseGC, store, runID)

	start := time.Now()
	switch opts.scenario {
	case "lists":
		err = scenarioLists(h, globals, opts)
	case "shared":
		err = scenarioShared(h, globals, opts)
	case "churn":
		err = scenarioChurn(h, syms, opts)
	default:
		return fmt.Errorf("unknown scenario %q (use: lists, shared, churn)", opts.scenario)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Final collection so the report covers survivors only.
	h.RequestCollection()
	h.MaybeCollect()

	stats := h.Stats()
	fmt.Printf("scenario %s: %d cycles in %v\n", opts.scenario, opts.cycles, elapsed.Round(time.Millisecond))
	fmt.Printf("allocated %d objects total; %d live (%d bytes), threshold %d, %d collections\n",
		stats.TotalAllocated, stats.Live, stats.LiveBytes, stats.NextThreshold, stats.Cycles)
	if err := reportThroughNatives(globals); err != nil {
		return err
	}

	if opts.snapshotPath != "" || opts.top > 0 {
		g := inspect.Capture(h)
		if opts.snapshotPath != "" {
			if err := writeSnapshotFile(g, opts.snapshotPath); err != nil {
				return err
			}
		}
		if opts.top > 0 {
			printTopRetainers(g, opts.top)
		}
	}

	if store != nil {
		sum, err := store.Summarize(context.Background(), runID)
		if err != nil {
			return err
		}
		fmt.Printf("telemetry run %s: %d cycles recorded, %d objects (%d bytes) reclaimed, max pause %v\n",
			runID, sum.Cycles, sum.Freed, sum.FreedBytes, sum.MaxPause)
	}
	return nil
}

// bindBuiltins installs the host functions scenarios and the final
// report reach through the global environment.
func bindBuiltins(reg *native.Registry, h *gc.Heap) error {
	if err := reg.BindFunc("heap-live", func([]gc.Object) (gc.Object, error) {
		return object.NewNumber(h, float64(h.Stats().Live)), nil
	}); err != nil {
		return err
	}
	if err := reg.BindFunc("heap-bytes", func([]gc.Object) (gc.Object, error) {
		return object.NewNumber(h, float64(h.Stats().LiveBytes)), nil
	}); err != nil {
		return err
	}
	return reg.BindValue("runtime-name", object.NewString(h, "junco"))
}

// installObservers wires cycle reporting: stdout when verbose-gc is on,
// the telemetry store when one is open. Both share the heap's single
// collection observer.
func installObservers(h *gc.Heap, verbose bool, store *telemetry.Store, runID string) {
	if !verbose && store == nil {
		return
	}
	h.OnCollect(func(r gc.CycleReport) {
		if verbose {
			fmt.Printf("gc %d: freed %d objects (%d bytes), %d live, next threshold %d, pause %v\n",
				r.Seq, r.Freed, r.FreedBytes, r.Live, r.Threshold, r.Pause)
		}
		if store != nil {
			if err := store.RecordCycle(context.Background(), runID, r); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: telemetry: %v\n", err)
			}
		}
	})
}

// keepSome selects the leading fraction of each cycle's allocations.
func keepSome(i, total int, keep float64) bool {
	return float64(i) < keep*float64(total)
}

// scenarioLists builds short lists under a root scope and binds the kept
// fraction into globals.
func scenarioLists(h *gc.Heap, globals *object.Env, opts runOptions) error {
	for cycle := 0; cycle < opts.cycles; cycle++ {
		if err := listCycle(h, globals, cycle, opts); err != nil {
			return err
		}
		h.MaybeCollect()
	}
	return nil
}

func listCycle(h *gc.Heap, globals *object.Env, cycle int, opts runOptions) error {
	scope := h.Scope()
	defer scope.Release()

	count := opts.objects / listLen
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		items := make([]gc.Object, listLen)
		for j := range items {
			items[j] = object.NewNumber(h, float64(cycle*listLen+j))
		}
		list := object.NewList(h, items...)
		scope.Add(&list)
		if keepSome(i, count, opts.keep) {
			if err := globals.Define(fmt.Sprintf("kept-%d-%d", cycle, i), list); err != nil {
				return err
			}
		}
	}
	return nil
}

// scenarioShared hangs every cycle's pairs off one long-lived tail so
// survivors share structure.
func scenarioShared(h *gc.Heap, globals *object.Env, opts runOptions) error {
	tail := object.NewList(h, object.NewString(h, "shared-tail"))
	if err := globals.Define("shared-tail", tail); err != nil {
		return err
	}
	for cycle := 0; cycle < opts.cycles; cycle++ {
		if err := sharedCycle(h, globals, tail, cycle, opts); err != nil {
			return err
		}
		h.MaybeCollect()
	}
	return nil
}

func sharedCycle(h *gc.Heap, globals *object.Env, tail gc.Object, cycle int, opts runOptions) error {
	scope := h.Scope()
	defer scope.Release()

	for i := 0; i < opts.objects; i++ {
		var pair gc.Object = object.NewPair(h, object.NewNumber(h, float64(i)), tail)
		scope.Add(&pair)
		if keepSome(i, opts.objects, opts.keep) {
			if err := globals.Define(fmt.Sprintf("shared-%d-%d", cycle, i), pair); err != nil {
				return err
			}
		}
	}
	return nil
}

// scenarioChurn allocates and immediately drops objects, interning one
// symbol per cycle so the symbol table stays exercised.
func scenarioChurn(h *gc.Heap, syms *symbol.Table, opts runOptions) error {
	for cycle := 0; cycle < opts.cycles; cycle++ {
		for i := 0; i < opts.objects; i++ {
			switch i % 3 {
			case 0:
				object.NewNumber(h, float64(i))
			case 1:
				object.NewString(h, "churn")
			default:
				object.NewPair(h, nil, nil)
			}
		}
		syms.Intern(fmt.Sprintf("cycle-%d", cycle))
		h.MaybeCollect()
	}
	return nil
}

// reportThroughNatives calls the bound host functions the way embedded
// code would.
func reportThroughNatives(globals *object.Env) error {
	for _, name := range []string{"heap-live", "heap-bytes"} {
		v, ok := globals.Lookup(name)
		if !ok {
			return fmt.Errorf("%s is not bound", name)
		}
		fn, ok := v.(*object.Native)
		if !ok {
			return fmt.Errorf("%s is not a native function", name)
		}
		res, err := fn.Call(nil)
		if err != nil {
			return err
		}
		fmt.Printf("%s() = %v\n", name, res)
	}
	return nil
}

// writeSnapshotFile serializes the captured graph to path.
func writeSnapshotFile(g *inspect.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := inspect.WriteSnapshot(f, g); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	fmt.Printf("snapshot: %d reachable objects, %d roots written to %s\n", g.Len(), len(g.Roots), path)
	return nil
}

// printTopRetainers lists the heaviest retainers and one reference path
// keeping the heaviest alive.
func printTopRetainers(g *inspect.Graph, n int) {
	tops := g.TopRetainers(n)
	fmt.Printf("top %d retainers:\n", len(tops))
	for _, r := range tops {
		if r.Label != "" {
			fmt.Printf("  #%d %s %q retains %d bytes\n", r.ID, r.Kind, r.Label, r.Retained)
		} else {
			fmt.Printf("  #%d %s retains %d bytes\n", r.ID, r.Kind, r.Retained)
		}
	}
	if len(tops) == 0 {
		return
	}
	for _, path := range g.PathsToRoots(tops[0].ID, 1) {
		fmt.Printf("  kept alive via:")
		for _, id := range path {
			fmt.Printf(" #%d", id)
		}
		fmt.Println()
	}
}
