package model

import (
	"net"
	"sort"
)

const (
	// UnknownProtocol is the name given to protocol numbers missing from the protocol table.
	UnknownProtocol = "UNKNOWN_PROTOCOL"
	// Untagged is the tag given to port/protocol pairs missing from the tag table.
	Untagged = "UNTAGGED"
)

// FlowRecord holds the fields extracted from a single flow log row.
// SrcIP and DstIP are only populated by the address-carrying reader variant.
type FlowRecord struct {
	SrcIP    net.IP
	DstIP    net.IP
	DstPort  uint32
	Protocol uint32 // IANA protocol number, e.g. 6 for TCP
}

// PortProtocol is the aggregation key: a destination port and a resolved protocol name.
type PortProtocol struct {
	Port     uint32
	Protocol string
}

// PortProtocolCounts maps each port/protocol pair to the number of records seen for it.
type PortProtocolCounts map[PortProtocol]uint64

// PortProtocolCount is a single row of PortProtocolCounts.
type PortProtocolCount struct {
	PortProtocol
	Count uint64
}

// Total returns the sum of all counts.
func (c PortProtocolCounts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

// Sorted returns the rows ordered by port, then protocol name.
func (c PortProtocolCounts) Sorted() []PortProtocolCount {
	rows := make([]PortProtocolCount, 0, len(c))
	for k, n := range c {
		rows = append(rows, PortProtocolCount{PortProtocol: k, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Port != rows[j].Port {
			return rows[i].Port < rows[j].Port
		}
		return rows[i].Protocol < rows[j].Protocol
	})
	return rows
}

// TagCounts maps each tag to the number of records resolved to it.
type TagCounts map[string]uint64

// TagCount is a single row of TagCounts.
type TagCount struct {
	Tag   string
	Count uint64
}

// Total returns the sum of all counts.
func (c TagCounts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

// Sorted returns the rows ordered by tag name.
func (c TagCounts) Sorted() []TagCount {
	rows := make([]TagCount, 0, len(c))
	for tag, n := range c {
		rows = append(rows, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Tag < rows[j].Tag })
	return rows
}

// Diagnostics describes what a run accepted and what it set aside.
type Diagnostics struct {
	AcceptedRecords      int    `json:"accepted_records"`
	SkippedLogRows       int    `json:"skipped_log_rows"`
	SkippedProtocolRows  int    `json:"skipped_protocol_rows"`
	SkippedTagRows       int    `json:"skipped_tag_rows"`
	UnknownProtocolFlows uint64 `json:"unknown_protocol_flows"`
	UntaggedFlows        uint64 `json:"untagged_flows"`

	// Distinct address counts are only filled when addresses are decoded.
	DistinctSources      int `json:"distinct_sources,omitempty"`
	DistinctDestinations int `json:"distinct_destinations,omitempty"`
}
