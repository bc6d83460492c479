package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_polls_total", Help: "Signal fetch attempts by result"},
		[]string{"result"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signals processed by outcome"},
		[]string{"outcome"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Order legs submitted"},
		[]string{"side", "leg"},
	)
	OrderFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "order_failures_total", Help: "Order legs that failed"},
		[]string{"leg"},
	)
	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "store_errors_total", Help: "Position store failures"},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(SignalPollsTotal, SignalsTotal, OrdersTotal, OrderFailuresTotal, StoreErrorsTotal)
}

// Serve exposes /metrics on addr in the background. An empty addr disables
// the endpoint.
func Serve(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
