package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/streamkit/component"
	"github.com/kbukum/streamkit/logger"
)

// Report accumulates what the service assembled during startup and logs
// it once the app is ready. Assembly callbacks feed it through the
// Track* methods; the final entry includes live component health.
type Report struct {
	serviceName     string
	version         string
	startupDuration time.Duration

	connectors []connectorEntry
	pipelines  []pipelineEntry
}

type connectorEntry struct {
	name   string
	kind   string // "kafka", "redis", "sqlite"
	detail string
}

type pipelineEntry struct {
	name   string
	stages []string
}

func newReport(serviceName, version string) *Report {
	return &Report{serviceName: serviceName, version: version}
}

// TrackConnector records an attached connector for the startup report.
func (r *Report) TrackConnector(name, kind, detail string) {
	r.connectors = append(r.connectors, connectorEntry{name: name, kind: kind, detail: detail})
}

// TrackPipeline records an assembled pipeline with its stage names in
// source-to-sink order.
func (r *Report) TrackPipeline(name string, stages ...string) {
	r.pipelines = append(r.pipelines, pipelineEntry{name: name, stages: stages})
}

// Log emits the report: one line per connector and pipeline, then a
// service-level line with the live health census.
func (r *Report) Log(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	for _, c := range r.connectors {
		log.Info("Connector attached", map[string]interface{}{
			"connector": c.name,
			"kind":      c.kind,
			"detail":    c.detail,
		})
	}
	for _, p := range r.pipelines {
		log.Info("Pipeline assembled", map[string]interface{}{
			"pipeline": p.name,
			"stages":   strings.Join(p.stages, " > "),
		})
	}

	healthy, total := 0, 0
	var degraded []string
	if registry != nil {
		for _, h := range registry.HealthAll(ctx) {
			total++
			if h.Status == component.StatusHealthy {
				healthy++
			} else {
				degraded = append(degraded, h.Name)
			}
		}
	}

	fields := map[string]interface{}{
		"service":    r.serviceName,
		"version":    r.version,
		"startup":    r.startupDuration.String(),
		"components": total,
		"healthy":    healthy,
	}
	if len(degraded) > 0 {
		fields["degraded"] = strings.Join(degraded, ",")
		log.Warn("Service started with degraded components", fields)
		return
	}
	log.Info("Service started", fields)
}
