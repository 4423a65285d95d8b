package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/yarkeeb/bookfeed/api"
	"github.com/yarkeeb/bookfeed/internal/admin"
	"github.com/yarkeeb/bookfeed/internal/config"
	"github.com/yarkeeb/bookfeed/internal/logging"
	"github.com/yarkeeb/bookfeed/internal/metrics"
	"github.com/yarkeeb/bookfeed/pkg/binance"
	"github.com/yarkeeb/bookfeed/pkg/consolidate"
	"github.com/yarkeeb/bookfeed/pkg/feed"
	"github.com/yarkeeb/bookfeed/pkg/kraken"
	"github.com/yarkeeb/bookfeed/pkg/okx"
	"github.com/yarkeeb/bookfeed/pkg/rpc"
	"github.com/yarkeeb/bookfeed/pkg/sink"
	"github.com/yarkeeb/bookfeed/pkg/venue"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.StringP("config", "c", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Production)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("bookfeed stopped", zap.Error(err))
	}
	logger.Info("bookfeed stopped")
}

func workers(cfg *config.Config, logger *zap.Logger) []*venue.Worker {
	v := cfg.Venues
	var ret []*venue.Worker
	if v.Binance.Enabled {
		ret = append(ret, binance.New(binance.Config{
			Symbol:      v.Binance.Symbol,
			WSURL:       v.Binance.WSURL,
			RESTURL:     v.Binance.RESTURL,
			DepthLimit:  v.Binance.DepthLimit,
			SnapshotRPS: v.Binance.SnapshotRPS,
			ReadTimeout: v.ReadTimeout,
		}, logger, v.RetryInterval))
	}
	if v.OKX.Enabled {
		ret = append(ret, okx.New(okx.Config{
			Symbol:       v.OKX.Symbol,
			WSURL:        v.OKX.WSURL,
			PingInterval: v.OKX.PingInterval,
			ReadTimeout:  v.ReadTimeout,
		}, logger, v.RetryInterval))
	}
	if v.Kraken.Enabled {
		ret = append(ret, kraken.New(kraken.Config{
			Symbol:      v.Kraken.Symbol,
			WSURL:       v.Kraken.WSURL,
			Depth:       v.Kraken.Depth,
			ReadTimeout: v.ReadTimeout,
		}, logger, v.RetryInterval))
	}
	return ret
}

func sinks(cfg *config.Config) []sink.Sink {
	var ret []sink.Sink
	if r := cfg.Sinks.Redis; r.Enabled {
		ret = append(ret, sink.NewRedis(sink.RedisConfig{
			Addr:      r.Addr,
			Password:  r.Password,
			DB:        r.DB,
			KeyPrefix: r.KeyPrefix,
			Channel:   r.Channel,
			TTL:       r.TTL,
		}))
	}
	if k := cfg.Sinks.Kafka; k.Enabled {
		ret = append(ret, sink.NewKafka(sink.KafkaConfig{Brokers: k.Brokers, Topic: k.Topic}))
	}
	return ret
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	consolidator, err := consolidate.New(cfg.Consolidation.Consolidate())
	if err != nil {
		return err
	}
	reg := metrics.Init(logger)

	sources := workers(cfg, logger)
	names := make([]string, 0, len(sources))
	reporters := make([]admin.PhaseReporter, 0, len(sources))
	for _, w := range sources {
		names = append(names, w.Name())
		reporters = append(reporters, w)
	}
	hub := feed.NewHub(names...)

	lsn, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return err
	}

	for _, w := range sources {
		if err := w.Start(ctx, hub.Publish); err != nil {
			return err
		}
	}
	defer func() {
		for _, w := range sources {
			w.Stop()
		}
		logger.Info("venue workers stopped")
	}()

	server := grpc.NewServer()
	api.RegisterBookFeedServer(server, rpc.NewService(hub, cfg.Symbol, consolidator, cfg.Consolidation.Interval, logger))
	reflection.Register(server)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("start listening", zap.String("addr", lsn.Addr().String()))
		return server.Serve(lsn)
	})
	g.Go(func() error {
		<-gctx.Done()
		stopGRPC(server)
		return nil
	})

	if cfg.Admin.Enabled {
		adminServer := admin.NewServer(cfg.Admin.Addr, reg, reporters, logger)
		g.Go(adminServer.ListenAndServe)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return adminServer.Shutdown(shutdownCtx)
		})
	}

	if outlets := sinks(cfg); len(outlets) > 0 {
		runner := sink.NewRunner(hub, consolidator, cfg.Symbol, cfg.Sinks.Interval, logger, outlets...)
		defer func() {
			if err := runner.Close(); err != nil {
				logger.Warn("closing sinks", zap.Error(err))
			}
		}()
		g.Go(func() error { return runner.Run(gctx) })
	}

	return g.Wait()
}

// stopGRPC lets open streams drain for a while, then cuts them.
func stopGRPC(server *grpc.Server) {
	done := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		server.Stop()
	}
}
