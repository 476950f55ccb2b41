// Binary layouts (little-endian):
//
//	Scalar:  nameLen:int32  name:[nameLen]byte  value:float64  unit:uint32
//	Vector:  nameLen:uint32 name:[nameLen]byte  count:uint64   values:[count]float64  unit:uint32
//	IntPara: nameLen:int32  name:[nameLen]byte  value:int32
//
// Values are stored in the base unit; unit ids are registry ids and only
// meaningful against a registry built from the same table.
package quantity

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/corey/siunit/internal/domain/unit"
)

// maxVectorName bounds the name length accepted when decoding a Vector.
const maxVectorName = 10000

func appendFloat64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

// decoder reads the binary layouts. Every read is bounds-checked so corrupt
// data fails with ErrMalformedInput instead of panicking.
type decoder struct {
	data []byte
	off  int
	what string
}

func (d *decoder) need(n int, field string) error {
	if n < 0 || d.off+n > len(d.data) {
		return fmt.Errorf("%w: %s truncated at %s (offset %d, need %d of %d bytes)",
			unit.ErrMalformedInput, d.what, field, d.off, n, len(d.data))
	}
	return nil
}

func (d *decoder) uint32(field string) (uint32, error) {
	if err := d.need(4, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) uint64(field string) (uint64, error) {
	if err := d.need(8, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(d.data[d.off:])
	d.off += 8
	return v, nil
}

func (d *decoder) float64(field string) (float64, error) {
	bits, err := d.uint64(field)
	return math.Float64frombits(bits), err
}

// string reads a length-prefixed name. The prefix is signed for scalars
// and integer parameters, so a negative length is rejected.
func (d *decoder) string(max int) (string, error) {
	n, err := d.uint32("name length")
	if err != nil {
		return "", err
	}
	if int32(n) < 0 || int(n) > max {
		return "", fmt.Errorf("%w: %s name length %d out of range", unit.ErrMalformedInput, d.what, int32(n))
	}
	if err := d.need(int(n), "name"); err != nil {
		return "", err
	}
	s := string(d.data[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

func (d *decoder) done() error {
	if d.off != len(d.data) {
		return fmt.Errorf("%w: %s has %d trailing bytes", unit.ErrMalformedInput, d.what, len(d.data)-d.off)
	}
	return nil
}
