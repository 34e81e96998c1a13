package manager

import (
	"TagALog/internal/config"
	"TagALog/internal/core/model"
	"TagALog/internal/engine/aggregator"
	"TagALog/internal/lookup"
	"TagALog/internal/report"
	"TagALog/pkg/flowlog"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result holds the output of one run.
type Result struct {
	RunID              string
	PortProtocolCounts model.PortProtocolCounts
	TagCounts          model.TagCounts
	Diagnostics        model.Diagnostics
}

// Manager runs the load, parse, aggregate and report stages for one configuration.
type Manager struct {
	cfg    *config.Config
	writer report.Writer
	runID  string
	log    *logrus.Entry
}

// NewManager creates a new Manager. It fails if the configuration is invalid
// or names an unknown report format.
func NewManager(cfg *config.Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	writer, err := report.NewWriter(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return &Manager{
		cfg:    cfg,
		writer: writer,
		runID:  runID,
		log:    logrus.WithField("run_id", runID),
	}, nil
}

// RunID returns the identifier attached to this manager's logs and report.
func (m *Manager) RunID() string {
	return m.runID
}

// Run processes the inputs and writes the report. Nothing is written if any
// stage fails.
func (m *Manager) Run() (*Result, error) {
	result, err := m.Process()
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		RunID:              result.RunID,
		GeneratedAt:        time.Now(),
		TagCounts:          result.TagCounts,
		PortProtocolCounts: result.PortProtocolCounts,
		Diagnostics:        result.Diagnostics,
	}
	if err := report.WriteFile(m.cfg.Output.Path, m.writer, rep); err != nil {
		return nil, err
	}
	m.log.WithFields(logrus.Fields{
		"path":   m.cfg.Output.Path,
		"format": m.cfg.Output.Format,
	}).Info("Report written.")

	return result, nil
}

// Process loads the reference tables, parses the flow log and aggregates it,
// without writing anything.
func (m *Manager) Process() (*Result, error) {
	protocols, err := m.loadProtocols()
	if err != nil {
		return nil, err
	}

	tags, err := lookup.LoadTagTable(m.cfg.Inputs.LookupTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup table: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"source":  m.cfg.Inputs.LookupTable,
		"entries": tags.Len(),
		"skipped": tags.Skipped(),
	}).Info("Lookup table loaded.")

	summary, reader, err := m.aggregateFlows(protocols, tags)
	if err != nil {
		return nil, err
	}

	diag := model.Diagnostics{
		AcceptedRecords:      reader.Accepted(),
		SkippedLogRows:       reader.Skipped(),
		SkippedProtocolRows:  protocols.Skipped(),
		SkippedTagRows:       tags.Skipped(),
		UnknownProtocolFlows: summary.UnknownProtocolFlows,
		UntaggedFlows:        summary.UntaggedFlows,
		DistinctSources:      summary.DistinctSources,
		DistinctDestinations: summary.DistinctDestinations,
	}
	fields := logrus.Fields{
		"accepted":         diag.AcceptedRecords,
		"skipped":          diag.SkippedLogRows,
		"unknown_protocol": diag.UnknownProtocolFlows,
		"untagged":         diag.UntaggedFlows,
		"tags":             len(summary.TagCounts),
		"combinations":     len(summary.PortProtocolCounts),
	}
	if m.cfg.Parser.Extended {
		fields["sources"] = diag.DistinctSources
		fields["destinations"] = diag.DistinctDestinations
	}
	m.log.WithFields(fields).Info("Flow log aggregated.")

	return &Result{
		RunID:              m.runID,
		PortProtocolCounts: summary.PortProtocolCounts,
		TagCounts:          summary.TagCounts,
		Diagnostics:        diag,
	}, nil
}

func (m *Manager) loadProtocols() (*lookup.ProtocolTable, error) {
	protocols, err := lookup.LoadProtocolTable(m.cfg.Inputs.ProtocolMap)
	if err != nil {
		return nil, fmt.Errorf("failed to load protocol map: %w", err)
	}
	m.log.WithFields(logrus.Fields{
		"source":  m.cfg.Inputs.ProtocolMap,
		"entries": protocols.Len(),
		"skipped": protocols.Skipped(),
	}).Info("Protocol map loaded.")

	if m.cfg.Protocols.BuiltinFallback {
		protocols = protocols.WithFallback(lookup.BuiltinProtocolTable())
		m.log.Debug("Builtin protocol names enabled as fallback.")
	}
	return protocols, nil
}

// aggregateFlows streams the flow log through the aggregator. The log file is
// closed before it returns.
func (m *Manager) aggregateFlows(protocols *lookup.ProtocolTable, tags *lookup.TagTable) (aggregator.Summary, *flowlog.Reader, error) {
	var opts []flowlog.Option
	if m.cfg.Parser.Extended {
		opts = append(opts, flowlog.WithAddresses())
	}

	reader, err := flowlog.NewReader(m.cfg.Inputs.FlowLogs, opts...)
	if err != nil {
		return aggregator.Summary{}, nil, fmt.Errorf("failed to open flow log: %w", err)
	}
	defer reader.Close()

	m.log.WithField("source", m.cfg.Inputs.FlowLogs).Info("Reading flow log...")
	summary := aggregator.Aggregate(reader.Records(), protocols, tags)
	if err := reader.Err(); err != nil {
		return aggregator.Summary{}, nil, fmt.Errorf("failed to parse flow log: %w", err)
	}
	if reader.Skipped() > 0 {
		m.log.WithField("rows", reader.Skipped()).Debug("Flow log rows with missing columns were skipped.")
	}
	return summary, reader, nil
}
