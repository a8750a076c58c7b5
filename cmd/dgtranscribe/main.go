package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/All-Turtles/deepgram-go-sdk/deepgram"
	"github.com/All-Turtles/deepgram-go-sdk/messages"
	"github.com/caarlos0/env/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var CommitHash = ""

type config struct {
	APIKey string `env:"API_KEY,required"`
	Client deepgram.ClientOptions

	// key=value query parameters, repeat a key for list options
	Params       []string `env:"PARAMS" envSeparator:";"`
	Mimetype     string   `env:"MIMETYPE"`
	Concurrency  int      `env:"CONCURRENCY" envDefault:"4"`
	Format       string   `env:"FORMAT" envDefault:"text"`
	MaxStdinSize int      `env:"MAX_STDIN_SIZE" envDefault:"104857600"`
}

const environmentPrefix = "DEEPGRAM_"
const logLevelEnvKey = environmentPrefix + "LOG_LEVEL"

func createLog() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = ""

	logLevelValue := os.Getenv(logLevelEnvKey)
	logLevel, logLevelErr := zapcore.ParseLevel(logLevelValue)

	if logLevelErr != nil {
		logLevel = zapcore.InfoLevel
	}

	// stdout is reserved for transcripts
	rawLog := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		logLevel,
	)).Named("dgtranscribe")

	if CommitHash != "" {
		rawLog = rawLog.With(zap.String("commit", CommitHash))
	}

	if logLevelErr != nil && logLevelValue != "" {
		rawLog.With(zap.String(logLevelEnvKey, logLevelValue)).Warn("unable to parse log level, using INFO")
	}

	return rawLog
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <url|file|-> [...]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "configured with %sAPI_KEY, %sURL, %sPARAMS, %sFORMAT (%v) and friends\n",
		environmentPrefix, environmentPrefix, environmentPrefix, environmentPrefix, messages.Formats)
}

func main() {
	parentLogger := createLog()
	defer parentLogger.Sync()

	log := parentLogger.Named("main")
	log.With(zap.String("min_log_level", parentLogger.Level().String())).Debug("starting")

	sources := os.Args[1:]
	if len(sources) == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config{}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix: environmentPrefix,
	}); err != nil {
		log.Fatal("failed to parse config", zap.Error(err))
	}
	if !messages.IsFormat(cfg.Format) {
		log.Fatal("unknown output format", zap.String("format", cfg.Format), zap.Strings("formats", messages.Formats))
	}

	t, err := newTranscribeRun(cfg, parentLogger)
	if err != nil {
		log.Fatal("failed to set up", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g := errgroup.Group{}

	var failed int
	g.Go(func() error {
		defer cancel()

		var err error
		failed, err = t.Run(ctx, sources, os.Stdin, os.Stdout)
		return err
	})

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-shutdownSignal:
		cancel()
		log.Info("received signal, shutting down")
	case <-ctx.Done():
	}

	err = g.Wait()
	if err != nil {
		log.Fatal("error group error", zap.Error(err))
	}

	if failed > 0 {
		log.With(zap.Int("failed", failed), zap.Int("total", len(sources))).Warn("some sources failed")
		parentLogger.Sync()
		os.Exit(1)
	}
}
