package lookup

import (
	"github.com/google/gopacket/layers"
)

// unknownIPProtocol is the name gopacket assigns to numbers it has no decoder for.
const unknownIPProtocol = "UnknownIPProtocol"

// BuiltinProtocolTable returns a table of the IP protocols gopacket knows by name.
// It is meant as a fallback behind a user-supplied protocol map.
func BuiltinProtocolTable() *ProtocolTable {
	names := make(map[uint32]string)
	for i := 0; i < 256; i++ {
		name := layers.IPProtocol(i).String()
		if name == "" || name == unknownIPProtocol {
			continue
		}
		names[uint32(i)] = name
	}
	return NewProtocolTable(names)
}
