// Package metrics holds the Prometheus collectors shared by the render
// pipeline and the preview server.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "demoreel",
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Total frames added to an animation, by scenario.",
	}, []string{"scenario"})

	FramesReused = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "demoreel",
		Subsystem: "render",
		Name:      "frames_reused_total",
		Help:      "Frames identical to their predecessor that reused its image, by scenario.",
	}, []string{"scenario"})

	FrameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "demoreel",
		Subsystem: "render",
		Name:      "frame_seconds",
		Help:      "Time to draw and quantise one frame.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	OutputBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "demoreel",
		Subsystem: "render",
		Name:      "output_bytes",
		Help:      "Size of the last written artifact, by scenario and artifact kind.",
	}, []string{"scenario", "artifact"})

	ServerFrameRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "demoreel",
		Subsystem: "server",
		Name:      "frame_requests_total",
		Help:      "Frame and animation requests served, by HTTP status.",
	}, []string{"status"})
)

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
