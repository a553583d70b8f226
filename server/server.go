package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KishanRaj0007/rtb-engine/config"
	"github.com/KishanRaj0007/rtb-engine/metrics"
)

// Listen serves the admin endpoints and blocks until the process receives
// SIGINT or SIGTERM, then shuts the server down gracefully. The bid pipeline
// itself has no listener; Kafka is the only ingress for bid traffic.
func Listen(cfg *config.Configuration, promMetrics *metrics.PrometheusMetrics) {
	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, syscall.SIGTERM, syscall.SIGINT)

	adminServer := newAdminServer(cfg, promMetrics)

	listener, err := net.Listen("tcp", adminServer.Addr)
	if err != nil {
		glog.Errorf("Error listening for TCP connections on %s: %v for admin server", adminServer.Addr, err)
		return
	}
	go runServer(adminServer, "Admin", listener)

	sig := <-stopSignals
	glog.Infof("Received signal %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adminServer.Shutdown(ctx); err != nil {
		glog.Errorf("Failed to shut down admin server: %v", err)
	}
}

func newAdminServer(cfg *config.Configuration, promMetrics *metrics.PrometheusMetrics) *http.Server {
	return &http.Server{
		Addr:    cfg.Host + ":" + strconv.Itoa(cfg.AdminPort),
		Handler: AdminHandler(cfg, promMetrics),
	}
}

// AdminHandler routes the admin surface: a liveness probe and, when enabled,
// the prometheus scrape endpoint.
func AdminHandler(cfg *config.Configuration, promMetrics *metrics.PrometheusMetrics) http.Handler {
	router := httprouter.New()
	router.GET("/status", status)
	if cfg.Metrics.Prometheus.Enabled && promMetrics != nil {
		router.Handler("GET", "/metrics", promhttp.HandlerFor(promMetrics.Registry, promhttp.HandlerOpts{
			ErrorLog:            loggerForPrometheus{},
			MaxRequestsInFlight: 5,
		}))
	}
	return router
}

func status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

func runServer(server *http.Server, name string, listener net.Listener) {
	glog.Infof("%s server starting on: %s", name, server.Addr)
	err := server.Serve(listener)
	glog.Errorf("%s server quit with error: %v", name, err)
}

type loggerForPrometheus struct{}

func (loggerForPrometheus) Println(v ...interface{}) {
	glog.Warningln(v...)
}
