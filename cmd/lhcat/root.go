package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/loghub/config"
	"github.com/kbukum/loghub/logger"
	"github.com/kbukum/loghub/observability"
	"github.com/kbukum/loghub/severity"
	"github.com/kbukum/loghub/version"
)

const (
	defaultLoggerName = "lhcat"
	shutdownTimeout   = 5 * time.Second
	maxLineSize       = 1 << 20
)

// options holds the flags shared by every lhcat command.
type options struct {
	configFile string
	envFile    string
	set        []string

	loggerName string
	level      string
	watch      bool

	otlpEndpoint string
	otlpInsecure bool
}

// loaderOptions turns the configuration flags into loader options.
func (o *options) loaderOptions() ([]config.LoaderOption, error) {
	overrides, err := config.ParseAssignments(o.set)
	if err != nil {
		return nil, err
	}
	opts := []config.LoaderOption{config.WithOverrides(overrides)}
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	return opts, nil
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "lhcat",
		Short: "Emit standard input through a loghub logger",
		Long: `lhcat reads lines from standard input and emits each one through a
named logger. Configuration is read from a loghub.{properties,yaml,toml,json}
file, LH_* and LOGGER_SERVICE_* environment variables and --set flags, in
increasing precedence.`,
		Version:      version.Get().String(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCat(cmd, o)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", "", "config file (default: loghub.* in ., ./config or /etc/loghub)")
	pf.StringVar(&o.envFile, "env-file", "", "env file to load before reading the environment (default: .env in the search paths)")
	pf.StringArrayVar(&o.set, "set", nil, "set a property, key=value (repeatable)")

	f := cmd.Flags()
	f.StringVarP(&o.loggerName, "logger", "l", defaultLoggerName, "name of the logger to emit through")
	f.StringVar(&o.level, "level", severity.Info.String(), "severity of the emitted records")
	f.BoolVar(&o.watch, "watch", false, "reload the config file when it changes")
	f.StringVar(&o.otlpEndpoint, "otlp-endpoint", "", "export logging metrics to this OTLP HTTP endpoint (host:port or URL)")
	f.BoolVar(&o.otlpInsecure, "otlp-insecure", false, "use plain HTTP for a host:port --otlp-endpoint")

	cmd.AddCommand(newCheckCmd(o))
	return cmd
}

func runCat(cmd *cobra.Command, o *options) error {
	level, err := severity.Parse(o.level)
	if err != nil {
		return err
	}
	opts, err := o.loaderOptions()
	if err != nil {
		return err
	}
	p, err := config.LoadProperties(opts...)
	if err != nil {
		return err
	}

	svcOpts := []logger.Option{
		logger.WithStdout(cmd.OutOrStdout()),
		logger.WithStderr(cmd.ErrOrStderr()),
		logger.WithDiagnostics(cmd.ErrOrStderr()),
	}
	var mp *sdkmetric.MeterProvider
	if o.otlpEndpoint != "" {
		mp, err = observability.InitMeter(cmd.Context(), observability.MeterConfig{
			ServiceName:    "lhcat",
			ServiceVersion: version.Get().Short(),
			Endpoint:       o.otlpEndpoint,
			Insecure:       o.otlpInsecure,
		})
		if err != nil {
			return err
		}
		svcOpts = append(svcOpts, logger.WithMeterProvider(mp))
	}

	svc := logger.New(svcOpts...)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = svc.Shutdown(ctx)
		if mp != nil {
			if err := mp.Shutdown(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "lhcat: failed to export metrics: %v\n", err)
			}
		}
	}()
	if err := svc.Configure(p); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if o.watch {
		path := watchedFile(o)
		if path == "" {
			return fmt.Errorf("--watch needs a config file, none given or found")
		}
		watchDone := make(chan struct{})
		defer func() {
			cancel()
			<-watchDone
		}()
		go func() {
			defer close(watchDone)
			err := config.Watch(ctx, path, svc, func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "lhcat: %v\n", err)
			}, opts...)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "lhcat: %v\n", err)
			}
		}()
	}

	return emitLines(ctx, cmd.InOrStdin(), svc.Logger(o.loggerName), level)
}

// watchedFile is the config file a reload would read.
func watchedFile(o *options) string {
	r := &config.Resolver{FileSystem: &config.RealFileSystem{}, SearchPaths: config.DefaultSearchPaths}
	return r.ResolveFiles(config.LoaderConfig{ConfigFile: o.configFile}).ConfigFile
}

// emitLines logs every line of in at level until EOF or ctx is done. A read
// blocked on an idle input does not delay the return on cancellation.
func emitLines(ctx context.Context, in io.Reader, log *logger.Logger, level severity.Level) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		errc <- scanLines(ctx, in, lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			log.Log(level, line)
		}
	}
}

// scanLines sends the lines of in to out until EOF or ctx is done.
func scanLines(ctx context.Context, in io.Reader, out chan<- string) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
