package main

import (
	"TagALog/internal/config"
	"TagALog/internal/engine/manager"
	"TagALog/internal/logger"
	"TagALog/internal/report"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to a YAML config file (optional)")
		protocolMap = flag.String("protocols", "", "Protocol map file (overrides config)")
		lookupTable = flag.String("lookup", "", "Tag lookup table file (overrides config)")
		flowLogs    = flag.String("logs", "", "Flow log file (overrides config)")
		output      = flag.String("output", "", "Report output path (overrides config)")
		format      = flag.String("format", "", "Report format: "+strings.Join(report.Formats(), ", ")+" (overrides config)")
		extended    = flag.Bool("extended", false, "Also decode source and destination addresses")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nTag flow log records by destination port and protocol.\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	override(&cfg.Inputs.ProtocolMap, *protocolMap)
	override(&cfg.Inputs.LookupTable, *lookupTable)
	override(&cfg.Inputs.FlowLogs, *flowLogs)
	override(&cfg.Output.Path, *output)
	override(&cfg.Output.Format, *format)
	if *extended {
		cfg.Parser.Extended = true
	}

	// 2. Set up logging
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	logrus.Debug("Configuration loaded successfully.")

	// 3. Initialize the manager
	m, err := manager.NewManager(cfg)
	if err != nil {
		logrus.Fatalf("Failed to create manager: %v", err)
	}

	// 4. Run the pipeline
	result, err := m.Run()
	if err != nil {
		logrus.WithField("run_id", m.RunID()).Fatalf("Run failed: %v", err)
	}

	fmt.Printf("Report written to %s (%d records, %d tags)\n",
		cfg.Output.Path, result.Diagnostics.AcceptedRecords, len(result.TagCounts))
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
