package aggregator

import (
	"TagALog/internal/core/model"
	"iter"
)

// ProtocolResolver looks up the name of a protocol number. A miss is
// aggregated under model.UnknownProtocol.
type ProtocolResolver interface {
	Lookup(proto uint32) (string, bool)
}

// TagResolver looks up the tag of a port/protocol pair. A miss is
// aggregated under model.Untagged.
type TagResolver interface {
	Lookup(port uint32, protocol string) (string, bool)
}

// Summary is the outcome of aggregating one flow log.
type Summary struct {
	PortProtocolCounts model.PortProtocolCounts
	TagCounts          model.TagCounts

	// Records whose lookup missed.
	UnknownProtocolFlows uint64
	UntaggedFlows        uint64

	// Distinct non-nil addresses seen. Zero unless records carry addresses.
	DistinctSources      int
	DistinctDestinations int
}

// Aggregate consumes records once and produces both count maps along with
// the miss and address tallies.
func Aggregate(records iter.Seq[model.FlowRecord], protocols ProtocolResolver, tags TagResolver) Summary {
	var s Summary
	sources := make(map[string]struct{})
	destinations := make(map[string]struct{})

	s.PortProtocolCounts, s.UnknownProtocolFlows = countPortProtocol(records, protocols, func(record model.FlowRecord) {
		if record.SrcIP != nil {
			sources[record.SrcIP.String()] = struct{}{}
		}
		if record.DstIP != nil {
			destinations[record.DstIP.String()] = struct{}{}
		}
	})
	s.TagCounts, s.UntaggedFlows = countTags(s.PortProtocolCounts, tags)
	s.DistinctSources = len(sources)
	s.DistinctDestinations = len(destinations)
	return s
}

// CountPortProtocol consumes records once and counts them per destination
// port and resolved protocol name.
func CountPortProtocol(records iter.Seq[model.FlowRecord], protocols ProtocolResolver) model.PortProtocolCounts {
	counts, _ := countPortProtocol(records, protocols, nil)
	return counts
}

// CountTags folds port/protocol counts into per-tag counts. Pairs that map to
// the same tag are summed together.
func CountTags(counts model.PortProtocolCounts, tags TagResolver) model.TagCounts {
	tagCounts, _ := countTags(counts, tags)
	return tagCounts
}

func countPortProtocol(records iter.Seq[model.FlowRecord], protocols ProtocolResolver, observe func(model.FlowRecord)) (model.PortProtocolCounts, uint64) {
	counts := make(model.PortProtocolCounts)
	var unknown uint64
	for record := range records {
		name, ok := protocols.Lookup(record.Protocol)
		if !ok {
			name = model.UnknownProtocol
			unknown++
		}
		counts[model.PortProtocol{Port: record.DstPort, Protocol: name}]++
		if observe != nil {
			observe(record)
		}
	}
	return counts, unknown
}

func countTags(counts model.PortProtocolCounts, tags TagResolver) (model.TagCounts, uint64) {
	tagCounts := make(model.TagCounts)
	var untagged uint64
	for key, n := range counts {
		tag, ok := tags.Lookup(key.Port, key.Protocol)
		if !ok {
			tag = model.Untagged
			untagged += n
		}
		tagCounts[tag] += n
	}
	return tagCounts, untagged
}
