package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/slickwilli/solar-usage/config"
	"github.com/slickwilli/solar-usage/pkg/clients/influx"
	"github.com/slickwilli/solar-usage/pkg/display"
	"github.com/slickwilli/solar-usage/pkg/poller"
)

func main() {
	configPath := flag.String("config", "", "path to the host settings file")
	flag.Parse()

	logConf := zap.NewProductionConfig()
	logConf.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	logConf.DisableCaller = true
	logger, err := logConf.Build()
	if err != nil {
		log.Fatal("error building zap logger", err)
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("unable to build configuration", zap.Error(err))
	}

	client, err := influx.NewClient(
		conf.InfluxDBURL,
		conf.InfluxDBToken,
		conf.Database,
		&http.Client{Timeout: conf.HTTPTimeout},
	)
	if err != nil {
		logger.Fatal("unable to build influxdb client", zap.Error(err))
	}

	surface := display.NewFramebuffer(conf.SnapshotPath)
	if err := display.DrawBootScreen(surface); err != nil {
		logger.Fatal("unable to draw to display", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	metrics := poller.NewMetrics(reg)
	p := poller.New(
		logger,
		client,
		display.NewNumberDisplay(surface),
		display.NewGraph(surface),
		metrics,
		conf.StaleThreshold,
	)

	go func() {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
		http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(p.Status()); err != nil {
				logger.Error("error writing status response", zap.Error(err))
			}
		})
		if err := http.ListenAndServe(conf.ListenAddress, nil); err != nil {
			logger.Fatal("metrics HTTP server failed", zap.Error(err))
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan bool, 1)

	go p.Run(conf.PollInterval, done)

	<-sigs
	logger.Info("exiting solar usage display")
	close(done)
}
