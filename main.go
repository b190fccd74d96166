package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/gotils/logger"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/cmd"
)

var version string

func main() {
	logger.Infof("version: %s", version)

	registerInfoMetric()

	cmd.Execute()
}

func registerInfoMetric() {
	opts := prometheus.GaugeOpts{}
	opts.Name = "appveyor_reporter_info"
	opts.Help = "appveyor-reporter application information"
	gauge := prometheus.NewGaugeVec(opts, []string{"version"})
	gauge.WithLabelValues(version).Set(1)
	prometheus.MustRegister(gauge)
}
