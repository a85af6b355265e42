package pipeline

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/practice"
)

const metricsNamespace = "practicemap"

// MetricsRegistry returns a registry holding one run's statistics as gauges.
func MetricsRegistry(stats Stats) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	registryRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "registry_rows",
		Help:      "Distinct organisation codes read from each registry file, by position in the override order.",
	}, []string{"position", "file"})
	for _, f := range stats.RegistryFiles {
		registryRows.WithLabelValues(strconv.Itoa(f.Position), f.Path).Set(float64(f.Rows))
	}

	dropped := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "dropped_organisations",
		Help:      "Joined organisations removed by each filter.",
	}, []string{"reason"})
	for _, reason := range practice.Reasons {
		dropped.WithLabelValues(string(reason)).Set(float64(stats.Dropped[reason]))
	}

	gauge := func(name, help string, v float64) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: metricsNamespace, Name: name, Help: help})
		g.Set(v)
		return g
	}

	reg.MustRegister(
		registryRows,
		dropped,
		gauge("merged_organisations", "Organisation codes after merging registry files.", float64(stats.Merged)),
		gauge("overridden_records", "Registry records replaced by a later file.", float64(stats.Overridden)),
		gauge("directory_rows", "Distinct organisation codes read from the directory file.", float64(stats.DirectoryRows)),
		gauge("joined_organisations", "Organisation codes in either source.", float64(stats.Joined)),
		gauge("emitted_organisations", "Organisations written to the output document.", float64(stats.Emitted)),
		gauge("run_duration_seconds", "Wall time of the reconciliation.", stats.Duration.Seconds()),
		gauge("last_success_timestamp_seconds", "Unix time the last successful run finished.", float64(time.Now().Unix())),
	)

	return reg
}

// WriteMetrics writes stats to path in the Prometheus text format, for the
// node_exporter textfile collector.
func WriteMetrics(path string, stats Stats) error {
	if err := prometheus.WriteToTextfile(path, MetricsRegistry(stats)); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
