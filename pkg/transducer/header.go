package transducer

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	hfst3Magic      = "HFST\x00"
	fixedHeaderSize = 56
)

// Properties are the boolean flags stored in the fixed header.
type Properties struct {
	Weighted                        bool `msgpack:"weighted"`
	Deterministic                   bool `msgpack:"deterministic"`
	InputDeterministic              bool `msgpack:"input_deterministic"`
	Minimized                       bool `msgpack:"minimized"`
	Cyclic                          bool `msgpack:"cyclic"`
	HasEpsilonEpsilonTransitions    bool `msgpack:"has_epsilon_epsilon_transitions"`
	HasInputEpsilonTransitions      bool `msgpack:"has_input_epsilon_transitions"`
	HasInputEpsilonCycles           bool `msgpack:"has_input_epsilon_cycles"`
	HasUnweightedInputEpsilonCycles bool `msgpack:"has_unweighted_input_epsilon_cycles"`
}

// Header describes a transducer: symbol counts, table sizes and properties.
type Header struct {
	InputSymbolCount uint16            `msgpack:"input_symbols"`
	SymbolCount      uint16            `msgpack:"symbols"`
	IndexTableSize   uint32            `msgpack:"index_table_size"`
	TargetTableSize  uint32            `msgpack:"target_table_size"`
	StateCount       uint32            `msgpack:"states"`
	TransitionCount  uint32            `msgpack:"transitions"`
	Properties       Properties        `msgpack:"properties"`
	Attributes       map[string]string `msgpack:"attributes,omitempty"`

	// length of the encoded header in bytes, including the HFST3 preamble
	size int
}

// Size returns the number of bytes the header occupied in its source.
func (h *Header) Size() int {
	return h.size
}

// ParseHeader decodes the optional HFST3 property block and the fixed header
// at the start of buf.
func ParseHeader(buf []byte) (*Header, error) {
	h := &Header{}
	off := 0

	if bytes.HasPrefix(buf, []byte(hfst3Magic)) {
		off = len(hfst3Magic)
		if len(buf) < off+3 {
			return nil, fmt.Errorf("%w: HFST3 preamble", ErrTruncated)
		}
		propLen := int(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		if buf[off] != 0 {
			return nil, fmt.Errorf("%w: HFST3 preamble not NUL terminated", ErrBadHeader)
		}
		off++
		if len(buf) < off+propLen {
			return nil, fmt.Errorf("%w: HFST3 properties", ErrTruncated)
		}
		h.Attributes = parseAttributes(buf[off : off+propLen])
		off += propLen
		if t, ok := h.Attributes["type"]; ok && t != "HFST_OL" && t != "HFST_OLW" {
			return nil, fmt.Errorf("%w: unsupported transducer type %q", ErrBadHeader, t)
		}
	}

	if len(buf) < off+fixedHeaderSize {
		return nil, fmt.Errorf("%w: fixed header", ErrTruncated)
	}
	b := buf[off:]
	h.InputSymbolCount = binary.LittleEndian.Uint16(b[0:])
	h.SymbolCount = binary.LittleEndian.Uint16(b[2:])
	h.IndexTableSize = binary.LittleEndian.Uint32(b[4:])
	h.TargetTableSize = binary.LittleEndian.Uint32(b[8:])
	h.StateCount = binary.LittleEndian.Uint32(b[12:])
	h.TransitionCount = binary.LittleEndian.Uint32(b[16:])

	flags := make([]bool, 9)
	for i := range flags {
		flags[i] = binary.LittleEndian.Uint32(b[20+4*i:]) != 0
	}
	h.Properties = Properties{
		Weighted:                        flags[0],
		Deterministic:                   flags[1],
		InputDeterministic:              flags[2],
		Minimized:                       flags[3],
		Cyclic:                          flags[4],
		HasEpsilonEpsilonTransitions:    flags[5],
		HasInputEpsilonTransitions:      flags[6],
		HasInputEpsilonCycles:           flags[7],
		HasUnweightedInputEpsilonCycles: flags[8],
	}
	if h.InputSymbolCount > h.SymbolCount {
		return nil, fmt.Errorf("%w: %d input symbols exceed %d symbols", ErrBadHeader, h.InputSymbolCount, h.SymbolCount)
	}
	h.size = off + fixedHeaderSize
	return h, nil
}

// AppendBinary encodes the header in the HFST3 layout.
func (h *Header) AppendBinary(dst []byte) []byte {
	var props []byte
	for _, k := range []string{"version", "type", "name"} {
		if v, ok := h.Attributes[k]; ok {
			props = append(props, k...)
			props = append(props, 0)
			props = append(props, v...)
			props = append(props, 0)
		}
	}
	if len(props) > 0 {
		dst = append(dst, hfst3Magic...)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(len(props)))
		dst = append(dst, 0)
		dst = append(dst, props...)
	}

	dst = binary.LittleEndian.AppendUint16(dst, h.InputSymbolCount)
	dst = binary.LittleEndian.AppendUint16(dst, h.SymbolCount)
	dst = binary.LittleEndian.AppendUint32(dst, h.IndexTableSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.TargetTableSize)
	dst = binary.LittleEndian.AppendUint32(dst, h.StateCount)
	dst = binary.LittleEndian.AppendUint32(dst, h.TransitionCount)
	p := h.Properties
	for _, f := range []bool{
		p.Weighted, p.Deterministic, p.InputDeterministic, p.Minimized, p.Cyclic,
		p.HasEpsilonEpsilonTransitions, p.HasInputEpsilonTransitions,
		p.HasInputEpsilonCycles, p.HasUnweightedInputEpsilonCycles,
	} {
		var v uint32
		if f {
			v = 1
		}
		dst = binary.LittleEndian.AppendUint32(dst, v)
	}
	return dst
}

func parseAttributes(b []byte) map[string]string {
	parts := bytes.Split(bytes.TrimRight(b, "\x00"), []byte{0})
	attrs := make(map[string]string, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		attrs[string(parts[i])] = string(parts[i+1])
	}
	return attrs
}
