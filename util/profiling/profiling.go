// Package profiling serves the prometheus metrics and pprof endpoints of a
// running process.
package profiling

import (
	"net/http"
	"net/http/pprof"

	"github.com/altcoinj/altcoin/infrastructure/logger"
	"github.com/altcoinj/altcoin/util/panics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler returns a handler serving /metrics and /debug/pprof/.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/", http.RedirectHandler("/debug/pprof/", http.StatusSeeOther))
	return mux
}

// Start serves NewHandler on listenAddr in the background.
func Start(listenAddr string, log *logger.Logger) {
	spawn := panics.GoroutineWrapperFunc(log)
	spawn("profiling.Start", func() {
		log.Infof("Profile server listening on %s", listenAddr)
		log.Error(http.ListenAndServe(listenAddr, NewHandler()))
	})
}
