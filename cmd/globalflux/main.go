// Command globalflux runs one global flux evaluation: load a reactor model
// and cross-section library, build run options from settings, invoke the
// configured kernel through the orchestrator, and report the eigenvalue.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/corephysics/globalflux/internal/engines/dose"
	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/internal/metrics"
	"github.com/corephysics/globalflux/internal/orchestrator"
	"github.com/corephysics/globalflux/internal/report"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
	"github.com/corephysics/globalflux/pkg/solver"
	"github.com/corephysics/globalflux/pkg/xslib"
)

func main() {
	var (
		settingsPath string
		modelPath    string
		xsPath       string
		solverPath   string
		workDir      string
		cycle        int
		node         int
		iteration    int
		verbosity    int
		development  bool
		metricsAddr  string
		summaryPath  string
	)
	pflag.StringVar(&settingsPath, "settings", "settings.yaml", "path to the settings file")
	pflag.StringVar(&modelPath, "model", "", "path to the reactor model file")
	pflag.StringVar(&xsPath, "xslib", "", "path to the cross-section library file")
	pflag.StringVar(&solverPath, "solver-path", "", "path to the external kernel executable")
	pflag.StringVar(&workDir, "workdir", ".", "directory for kernel exchange files")
	pflag.IntVar(&cycle, "cycle", 0, "burn cycle index")
	pflag.IntVar(&node, "node", 0, "time node index within the cycle")
	pflag.IntVar(&iteration, "iteration", -1, "coupled iteration index, negative for none")
	pflag.IntVar(&verbosity, "v", 0, "log verbosity")
	pflag.BoolVar(&development, "dev", false, "human-readable log output")
	pflag.StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on, empty to disable")
	pflag.StringVar(&summaryPath, "summary", "", "path to write a run summary file, empty to skip")
	pflag.Parse()

	log, err := logging.New(logging.Config{Development: development, Verbosity: verbosity})
	if err != nil {
		fmt.Fprintln(os.Stderr, "building logger:", err)
		os.Exit(1)
	}

	if err := run(settingsPath, modelPath, xsPath, solverPath, workDir,
		cycle, node, iteration, metricsAddr, summaryPath, log); err != nil {
		log.Error(err, "flux evaluation failed")
		os.Exit(1)
	}
}

func run(settingsPath, modelPath, xsPath, solverPath, workDir string,
	cycle, node, iteration int, metricsAddr, summaryPath string, log logr.Logger) error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	if modelPath == "" {
		return fmt.Errorf("--model must be set")
	}
	model, err := core.LoadModel(modelPath)
	if err != nil {
		return err
	}
	model.Cycle = cycle
	model.TimeNode = node
	if settings.Power > 0 {
		model.Core.Params.Power = settings.Power
	}

	var lib xslib.Library
	var sets xslib.DpaSets
	if xsPath != "" {
		fl, err := xslib.Load(xsPath)
		if err != nil {
			return err
		}
		lib = fl
		sets = fl.DpaXs
	}

	opts := config.NewOptions(config.Label(settings.CaseTitle, cycle, node, iteration))
	opts.FromSettings(settings)
	opts.FromModel(model)
	if err := opts.Validate(); err != nil {
		return err
	}

	if solverPath != "" {
		solver.RegisterExternal(solver.ExternalConfig{
			Kernel:  opts.KernelName,
			Path:    solverPath,
			WorkDir: workDir,
		})
	}
	kernel, err := solver.New(opts.KernelName)
	if err != nil {
		return err
	}

	var doser *dose.Mapper
	if opts.Dose != nil && sets != nil {
		doser, err = dose.New(log, opts, sets)
		if err != nil {
			return err
		}
	}

	var m *metrics.Metrics
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(err, "metrics server failed")
			}
		}()
		defer srv.Close()
	}

	exec, err := orchestrator.New(orchestrator.Config{
		Log:     log,
		Options: opts,
		Model:   model,
		Solver:  kernel,
		Lib:     lib,
		Doser:   doser,
		Metrics: m,
	})
	if err != nil {
		return err
	}
	out, err := exec.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("evaluation complete", "label", opts.Label, "keff", out.Keff())
	if summaryPath != "" {
		if err := report.Collect(model, opts.Label).WriteYAML(summaryPath); err != nil {
			return err
		}
	}
	fmt.Printf("keff = %.6f\n", out.Keff())
	return nil
}
