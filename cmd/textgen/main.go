// Command textgen lists models, generates text and serves the HTTP gateway
// for the clients named in a YAML config.
//
// Usage:
//
//	textgen [-config textgen.yaml] [-env .env] models -client NAME
//	textgen [-config textgen.yaml] generate -client NAME [-model M] [-system S] PROMPT...
//	textgen [-config textgen.yaml] serve [-addr :8080]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ineyio/textgen"
	"github.com/ineyio/textgen/clients"
	"github.com/ineyio/textgen/internal/gateway"
	"github.com/ineyio/textgen/meter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "textgen:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    textgen.Config
	logger *slog.Logger
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("textgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "textgen.yaml", "path to the YAML client config")
	envPath := fs.String("env", ".env", "dotenv file loaded before the config is read; missing is fine")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command: models, generate or serve")
	}

	if *envPath != "" {
		if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", *envPath, err)
		}
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	a := &app{
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdout: stdout,
	}

	cfg, err := textgen.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "models":
		return a.models(ctx, rest)
	case "generate":
		return a.generate(ctx, rest)
	case "serve":
		return a.serve(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) client(name string, shared ...textgen.Option) (textgen.Client, error) {
	if name == "" {
		if len(a.cfg.Clients) != 1 {
			return nil, errors.New("-client is required when the config names more than one client")
		}
		name = a.cfg.Clients[0].Name
	}
	cc, ok := a.cfg.Client(name)
	if !ok {
		return nil, fmt.Errorf("no client named %q in config", name)
	}
	return clients.FromClientConfig(cc, append([]textgen.Option{textgen.WithLogger(a.logger)}, shared...)...)
}

func (a *app) models(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	name := fs.String("client", "", "client name from the config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.client(*name)
	if err != nil {
		return err
	}
	models, err := c.Models(ctx)
	if err != nil {
		return err
	}
	for _, m := range models.Models {
		if m.Name != "" && m.Name != m.ID {
			fmt.Fprintf(a.stdout, "%s\t%s\n", m.ID, m.Name)
		} else {
			fmt.Fprintln(a.stdout, m.ID)
		}
	}
	return nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	name := fs.String("client", "", "client name from the config")
	model := fs.String("model", "", "model, overriding the client default")
	system := fs.String("system", "", "system instructions")
	temperature := fs.Float64("temperature", -1, "sampling temperature; negative keeps the client default")
	maxTokens := fs.Int("max-tokens", 0, "output token limit; zero means vendor default")
	format := fs.String("format", "", "response format: text, json_object")
	asJSON := fs.Bool("json", false, "print the full response as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	prompt := strings.Join(fs.Args(), " ")
	if prompt == "" {
		return errors.New("generate: prompt is required")
	}

	c, err := a.client(*name, textgen.WithMeter(meter.NewLogMeter(a.logger)))
	if err != nil {
		return err
	}

	var formatErr error
	resp, err := c.Generate(ctx, func(r *textgen.RequestBuilder) {
		r.Prompt = prompt
		if *model != "" {
			r.Model = *model
		}
		r.SystemInstructions = *system
		if *temperature >= 0 {
			r.Temperature = textgen.Float64Ptr(*temperature)
		}
		if *maxTokens > 0 {
			r.MaxOutputTokens = textgen.IntPtr(*maxTokens)
		}
		if *format != "" {
			kind, err := textgen.ParseFormatKind(*format)
			if err != nil {
				formatErr = err
				return
			}
			r.ResponseFormat = &textgen.ResponseFormat{Kind: kind}
		}
	})
	if formatErr != nil {
		return formatErr
	}
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(a.stdout, resp.Response)
	return nil
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	pm, err := meter.NewPrometheusMeter(reg)
	if err != nil {
		return err
	}
	health := meter.NewHealthMeter()
	m := meter.Multi(meter.NewLogMeter(a.logger), pm, meter.NewTracingMeter(nil), health)

	built, err := clients.FromConfig(a.cfg, textgen.WithLogger(a.logger), textgen.WithMeter(m))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", gateway.New(built, a.logger).WithHealth(health).Router())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("gateway listening", "addr", *addr, "clients", len(built))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
