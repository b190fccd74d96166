package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/gotils/promexporter/promreg"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/config"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/filter"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/relay"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/report"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/sink/appveyor"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/util"
)

type runCommandState struct {
	Config      string `help:"Configuration file path; empty for defaults plus environment overrides"`
	Input       string `help:"Test event stream to relay, one JSON event per line; '-' for stdin"`
	MetricsAddr string `help:"The listener address to expose Prometheus metrics and debug information"`
}

var runCmd = runCommandState{
	Config:      "",
	Input:       "-",
	MetricsAddr: ":9335",
}

func (cmd *runCommandState) run(args []string) {
	cfg, cerr := config.Load(cmd.Config)
	if cerr != nil {
		logger.Fatal(cerr)
	}

	msrv := util.LaunchMetricsListener(cmd.MetricsAddr)
	mfactory := promreg.NewMetricFactory("appveyor_reporter_", nil, nil)

	rec := buildRecorder(cfg, mfactory)
	cmd.relayEvents(rec)

	drained := channels.NewSignalAwaitable()
	rec.Close(drained.Signal)
	drained.WaitForever()

	if err := msrv.Shutdown(context.Background()); err != nil {
		logger.Errorf("error shutting down metrics listener: %v", err)
	}
	logger.Info("clean exit")
}

func buildRecorder(cfg config.Config, mfactory promreg.MetricCreator) *report.Recorder {
	var excluder *filter.Filter
	if len(cfg.Filter.ExcludePatterns) > 0 {
		compiled, err := cfg.Filter.NewFilter()
		if err != nil {
			logger.Fatal(err)
		}
		excluder = compiled
	}

	rel := relay.New(logger.Root(), newSender(cfg), cfg.BatchSize, cfg.FlushInterval, mfactory)
	rel.Launch()
	return report.NewRecorder(logger.Root(), rel, excluder, cfg.Framework, mfactory)
}

// newSender returns nil when no endpoint is configured, which disables the relay
func newSender(cfg config.Config) base.BatchSender {
	if cfg.URL == "" {
		return nil
	}
	return appveyor.NewSender(logger.Root(), cfg.URL, cfg.HTTP)
}

func (cmd *runCommandState) relayEvents(rec *report.Recorder) {
	input := os.Stdin
	if cmd.Input != "-" && cmd.Input != "" {
		file, err := os.Open(cmd.Input)
		if err != nil {
			logger.Fatalf("failed to open input %s: %s", cmd.Input, err.Error())
		}
		defer file.Close()
		input = file
	}

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), defs.InputMaxEventBytes)
	numMalformed := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event report.TestEvent
		if err := json.Unmarshal(line, &event); err != nil {
			numMalformed++
			logger.Warnf("skipped malformed event line: %s", err.Error())
			continue
		}
		_ = rec.TestCompleted(event) // malformed outcomes are counted by the recorder
	}
	if err := scanner.Err(); err != nil {
		logger.Errorf("error reading event stream: %s", err.Error())
	}
	if numMalformed > 0 {
		logger.Warnf("skipped %d malformed event lines", numMalformed)
	}
}
