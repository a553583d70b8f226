package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
	"github.com/KishanRaj0007/rtb-engine/campaigns/caches/memory"
	rediscache "github.com/KishanRaj0007/rtb-engine/campaigns/caches/redis"
	"github.com/KishanRaj0007/rtb-engine/campaigns/db_store"
	"github.com/KishanRaj0007/rtb-engine/config"
	"github.com/KishanRaj0007/rtb-engine/messaging"
	"github.com/KishanRaj0007/rtb-engine/metrics"
	"github.com/KishanRaj0007/rtb-engine/pipeline"
	"github.com/KishanRaj0007/rtb-engine/server"
	"github.com/KishanRaj0007/rtb-engine/simulator"
)

// Rev holds binary revision string
// Set manually at build time using:
//    go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	if err := serve(Rev, cfg); err != nil {
		glog.Exitf("rtb-engine failed: %v", err)
	}
}

const configFileName = "rtb"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(revision string, cfg *config.Configuration) error {
	glog.Infof("rtb-engine starting (rev %s)", revision)

	db, err := sql.Open("postgres", db_store.ConnString(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
		cfg.Database.Username,
		cfg.Database.Password,
	))
	if err != nil {
		return fmt.Errorf("error opening campaign database: %w", err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("error connecting to campaign database: %w", err)
	}

	store := db_store.NewStore(db)
	cache := newCache(cfg)

	// The one-time bulk load, followed by the one full cache flush. This is
	// the only administrative mutation path; if it fails we abort startup
	// rather than serve bids off a partially loaded store.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSeed()
	if err := store.Seed(seedCtx, campaigns.SeedData()); err != nil {
		return fmt.Errorf("campaign bulk load failed: %w", err)
	}
	if err := cache.Clear(seedCtx); err != nil {
		return fmt.Errorf("campaign cache flush after bulk load failed: %w", err)
	}

	goMetrics := metrics.NewGoMetrics()
	engine := metrics.MultiEngine{goMetrics}
	if cfg.Metrics.Influx.Enabled {
		go goMetrics.Export(
			cfg.Metrics.Influx.Interval(),
			cfg.Metrics.Influx.URL,
			cfg.Metrics.Influx.Database,
			cfg.Metrics.Influx.Username,
			cfg.Metrics.Influx.Password,
		)
	}
	var promMetrics *metrics.PrometheusMetrics
	if cfg.Metrics.Prometheus.Enabled {
		promMetrics = metrics.NewPrometheusMetrics()
		engine = append(engine, promMetrics)
	}

	consumer := messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RequestTopic, cfg.Kafka.GroupID)
	defer consumer.Close()
	publisher := messaging.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.ResponseTopic)
	defer publisher.Close()

	fetcher := campaigns.WithCache(store, cache, engine)
	pipe := pipeline.New(consumer, publisher, fetcher, engine, cfg.Kafka.Workers)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	pipelineDone := make(chan struct{})
	go func() {
		pipe.Run(runCtx)
		close(pipelineDone)
	}()

	if cfg.Simulator.Enabled {
		source, err := simulator.LoadSource(cfg.Simulator.DataFile)
		if err != nil {
			return fmt.Errorf("load generator could not start: %w", err)
		}
		simPublisher := messaging.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.RequestTopic)
		defer simPublisher.Close()
		runner := simulator.NewRunner(source, simPublisher, engine, cfg.Simulator.Workers)
		go runner.Run(runCtx)
	}

	// Blocks until SIGINT/SIGTERM.
	server.Listen(cfg, promMetrics)

	cancelRun()
	<-pipelineDone
	return nil
}

func newCache(cfg *config.Configuration) campaigns.Cache {
	switch cfg.Cache.Type {
	case "memory":
		glog.Infof("Using in-process campaign cache (%d bytes)", cfg.Cache.Memory.SizeBytes)
		return memory.NewCache(cfg.Cache.Memory.SizeBytes, cfg.Cache.TTLSeconds)
	default:
		glog.Infof("Using redis campaign cache at %s", cfg.Cache.Redis.Addr)
		return rediscache.NewCache(rediscache.Options{
			Addr:       cfg.Cache.Redis.Addr,
			DB:         cfg.Cache.Redis.DB,
			Username:   cfg.Cache.Redis.Username,
			Password:   cfg.Cache.Redis.Password,
			TLS:        cfg.Cache.Redis.TLS,
			TTLSeconds: cfg.Cache.TTLSeconds,
		})
	}
}
