// Record encoding for stored quantities.
//
// Every value in a set bucket is a small envelope around the quantity's
// own binary layout (see package quantity):
//
//	version: uint8 (recordVersion)
//	kind:    uint8 (ports.Kind)
//	payload: quantity MarshalBinary output
//
// The table fingerprint in the meta bucket is a little-endian uint64.
package bbolt

import (
	"encoding"
	"encoding/binary"
	"fmt"

	"github.com/corey/siunit/internal/ports"
)

const recordVersion = 1

// encodeRecord wraps the binary form of m in a record envelope.
func encodeRecord(kind ports.Kind, m encoding.BinaryMarshaler) ([]byte, error) {
	payload, err := m.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}
	buf := make([]byte, 2, 2+len(payload))
	buf[0] = recordVersion
	buf[1] = byte(kind)
	return append(buf, payload...), nil
}

// decodeRecord splits an envelope into kind and payload.
func decodeRecord(data []byte) (ports.Kind, []byte, error) {
	if len(data) < 2 {
		return 0, nil, fmt.Errorf("record too short: %d bytes", len(data))
	}
	if data[0] != recordVersion {
		return 0, nil, fmt.Errorf("unsupported record version %d", data[0])
	}
	kind := ports.Kind(data[1])
	switch kind {
	case ports.KindScalar, ports.KindVector, ports.KindInt:
	default:
		return 0, nil, fmt.Errorf("unknown record kind %d", data[1])
	}
	return kind, data[2:], nil
}

func encodeFingerprint(fp uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, fp)
}

func decodeFingerprint(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("fingerprint: expected 8 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}
