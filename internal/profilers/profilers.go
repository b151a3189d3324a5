// Package profilers implement helper functions to set up profiling of the searches, mostly
// to measure and improve the rollouts per second.
//
// If linked, it installs the profiler flags.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagProfiler   = flag.Int("prof", -1, "If set, runs the HTTP profiler at the given port.")
	flagCPUProfile = flag.String("cpu_profile", "", "write cpu profile to `file`")
	flagMemProfile = flag.String("mem_profile", "", "write a heap profile to `file` at the end of the program")
)

// Profilers holds the profilers started by Setup.
type Profilers struct {
	ctx          context.Context
	httpAddr     string
	cpuFile      *os.File
	memFile      string
	keepAliveEnd bool
}

// Setup starts the HTTP (flag -prof) and CPU profilers (flag -cpu_profile), if they were configured.
// You should follow with a deferred call to OnQuit.
func Setup(ctx context.Context) (*Profilers, error) {
	p := &Profilers{ctx: ctx, memFile: *flagMemProfile}
	if *flagProfiler >= 0 {
		p.startHTTP(*flagProfiler)
	}
	if *flagCPUProfile != "" {
		if err := p.startCPU(*flagCPUProfile); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// startCPU creates the file and starts the CPU profiling there.
func (p *Profilers) startCPU(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create CPU profile %q", path)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "could not start CPU profile in %q", path)
	}
	p.cpuFile = f
	return nil
}

// startHTTP starts the HTTP profiler server on localhost at the given port.
func (p *Profilers) startHTTP(port int) {
	p.httpAddr = fmt.Sprintf("localhost:%d", port)
	p.keepAliveEnd = port > 0
	fmt.Printf("Starting profiler on %s/debug/pprof\n", p.httpAddr)
	fmt.Printf("- You can access it with: $ go tool pprof %s/debug/pprof/heap\n", p.httpAddr)
	fmt.Printf("- Program will be kept alive on end, you will have to interrupt it (Ctrl+C) to exit\n")
	go func() {
		klog.Fatal(http.ListenAndServe(p.httpAddr, nil))
	}()
}

// OnQuit should be called before the exit of the main() function, typically this is setup as a
// deferred call just after Setup. It is a no-op on a nil Profilers.
//
// If the HTTP profiler is running, it keeps the program alive until the context is cancelled.
func (p *Profilers) OnQuit() {
	if p == nil {
		return
	}
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			klog.Errorf("Failed to close CPU profile: %+v", err)
		}
		p.cpuFile = nil
	}
	if p.memFile != "" {
		if err := writeHeapProfile(p.memFile); err != nil {
			klog.Errorf("Failed to write heap profile: %+v", err)
		}
	}
	if !p.keepAliveEnd {
		return
	}
	if p.ctx.Err() != nil {
		// Already interrupted.
		return
	}

	// Garbage collect, to see if there is anything leaking.
	for range 10 {
		runtime.GC()
	}
	fmt.Printf("- Program finished: kept alive with profiler opened at %s/debug/pprof\n", p.httpAddr)
	fmt.Printf("- Interrupt (Ctrl+C) to exit\n")
	<-p.ctx.Done()
	fmt.Printf("... exiting ...\n")
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create heap profile %q", path)
	}
	runtime.GC()
	if err = pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "could not write heap profile %q", path)
	}
	return f.Close()
}
