// Package metrics exposes prometheus counters for the message layer and the
// header chain.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "altcoin"

var (
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wire",
		Name:      "messages_total",
		Help:      "Count of framed messages read and written, by command.",
	}, []string{"direction", "command", "status"})
	unknownMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wire",
		Name:      "unknown_messages_total",
		Help:      "Count of received messages with an unregistered command.",
	}, []string{"command"})
	checksumFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wire",
		Name:      "checksum_failures_total",
		Help:      "Count of received messages whose payload checksum did not match.",
	})
	powChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pow",
		Name:      "checks_total",
		Help:      "Count of block proof of work checks.",
	}, []string{"mode", "status"})
	difficultyChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "blockchain",
		Name:      "difficulty_checks_total",
		Help:      "Count of difficulty transition checks.",
	}, []string{"network", "status"})
	difficultyCheckDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "blockchain",
		Name:      "difficulty_check_duration_seconds",
		Help:      "Duration of difficulty transition checks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})
	storedHeadersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "blockstore",
		Name:      "headers_stored_total",
		Help:      "Count of headers written to the block store.",
	})
)

const (
	// DirectionRead labels messages read from a peer.
	DirectionRead = "read"

	// DirectionWrite labels messages written to a peer.
	DirectionWrite = "write"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveMessage records a message read or written with the given command.
func ObserveMessage(direction, command string, err error) {
	messagesTotal.WithLabelValues(direction, command, status(err)).Inc()
}

// ObserveUnknownMessage records a received message with an unregistered
// command.
func ObserveUnknownMessage(command string) {
	unknownMessagesTotal.WithLabelValues(command).Inc()
}

// ObserveChecksumFailure records a received message with a bad checksum.
func ObserveChecksumFailure() {
	checksumFailuresTotal.Inc()
}

// ObserveProofOfWorkCheck records the outcome of a proof of work check.
func ObserveProofOfWorkCheck(mode string, err error) {
	powChecksTotal.WithLabelValues(mode, status(err)).Inc()
}

// ObserveDifficultyCheck records the outcome and duration of a difficulty
// transition check.
func ObserveDifficultyCheck(network string, err error, started time.Time) {
	if network == "" {
		network = "unknown"
	}
	difficultyChecksTotal.WithLabelValues(network, status(err)).Inc()
	difficultyCheckDuration.WithLabelValues(network, status(err)).Observe(time.Since(started).Seconds())
}

// ObserveStoredHeader records a header written to the block store.
func ObserveStoredHeader() {
	storedHeadersTotal.Inc()
}
