// Command hashlabd serves hash table sessions over http.
//
// Defaults are read from the environment (and an optional .env file):
// HASHLAB_ADDR, HASHLAB_CAPACITY, HASHLAB_STRATEGY, HASHLAB_HASH,
// HASHLAB_MAX_SESSIONS and HASHLAB_LOG_LEVEL. Flags override them.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/scottcagno/hashlab/pkg/logger"
	"github.com/scottcagno/hashlab/pkg/metrics"
	"github.com/scottcagno/hashlab/pkg/session"
	"github.com/scottcagno/hashlab/pkg/util"
	"github.com/scottcagno/hashlab/pkg/web"
)

// options is everything the daemon can be configured with
type options struct {
	addr     string
	capacity int
	strategy string
	method   string
	level    string
	sessions int
	grace    time.Duration
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// parseOptions reads the environment first and lets args override it
func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("hashlabd", flag.ContinueOnError)
	fs.StringVar(&opts.addr, "addr", getEnv("HASHLAB_ADDR", ":8080"), "listen address")
	fs.IntVar(&opts.capacity, "capacity", atoiDefault(getEnv("HASHLAB_CAPACITY", ""), session.DefaultCapacity), "default table capacity")
	fs.StringVar(&opts.strategy, "strategy", getEnv("HASHLAB_STRATEGY", "linear"), "default collision strategy")
	fs.StringVar(&opts.method, "hash", getEnv("HASHLAB_HASH", "division"), "default hash method")
	fs.StringVar(&opts.level, "log", getEnv("HASHLAB_LOG_LEVEL", "info"), "log level")
	fs.IntVar(&opts.sessions, "max-sessions", atoiDefault(getEnv("HASHLAB_MAX_SESSIONS", ""), web.DefaultSessionLimit), "maximum number of open sessions")
	fs.DurationVar(&opts.grace, "grace", 10*time.Second, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file loaded, using the process environment")
	}
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "hashlabd: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	lvl, err := logger.ParseLevel(opts.level)
	if err != nil {
		return err
	}
	log := logger.NewLogger(os.Stderr)
	log.SetLevel(lvl)
	log.SetPrefix("hashlabd ")
	if log.Level() <= logger.LevelDebug {
		log.SetPrintFile(true)
	}

	defaults, err := session.ParseConfig(opts.capacity, opts.strategy, opts.method)
	if err != nil {
		return errors.Wrap(err, "default session config")
	}
	if opts.sessions < 1 {
		return errors.Errorf("max-sessions must be positive, got %d", opts.sessions)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srv := &http.Server{
		Addr: opts.addr,
		Handler: web.NewServer(
			web.WithLogger(log),
			web.WithMetrics(metrics.New(reg), reg),
			web.WithDefaults(defaults),
			web.WithSessionLimit(opts.sessions),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := util.ShutdownContext(context.Background())
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Infof("listening on %s, default table %d slots strategy=%s hash=%s, at most %d sessions",
			opts.addr, defaults.Capacity, defaults.Strategy, defaults.Method, opts.sessions)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
