package quantity

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/corey/siunit/internal/domain/unit"
)

// IntPara is a named integer parameter without a unit.
// An empty name marks the parameter as undefined.
type IntPara struct {
	Name  string
	Value int
}

func (p *IntPara) Set(name string, v int) {
	p.Name = name
	p.Value = v
}

func (p IntPara) Empty() bool { return p.Name == "" }

func (p *IntPara) Clear() { *p = IntPara{} }

// Format renders "<name> = <value>", or only the value without the name.
func (p IntPara) Format(withName bool) string {
	if withName {
		return p.Name + " = " + strconv.Itoa(p.Value)
	}
	return strconv.Itoa(p.Value)
}

// Read parses "<name> = <value>", or "<value>" when noName is set.
func (p *IntPara) Read(text string, noName bool) error {
	fields := strings.Fields(text)
	name := p.Name
	switch {
	case noName && len(fields) == 1:
	case !noName && len(fields) == 3 && fields[1] == "=":
		name = fields[0]
		fields = fields[2:]
	default:
		return fmt.Errorf("%w: error reading integer parameter from %q", unit.ErrMalformedInput, text)
	}
	v, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return fmt.Errorf("%w: invalid integer %q", unit.ErrMalformedInput, fields[0])
	}
	p.Set(name, int(v))
	return nil
}

func (p IntPara) Write(w io.Writer, indent, width int, writeName bool) error {
	line := strings.Repeat(" ", indent)
	if writeName && p.Name != "" {
		line += fmt.Sprintf("%-*s = ", width, p.Name)
	}
	_, err := fmt.Fprintf(w, "%s%d\n", line, p.Value)
	return err
}

// CheckBelowLimit verifies p <= limit (inclusive) or p < limit.
func (p IntPara) CheckBelowLimit(limit IntPara, inclusive bool) error {
	if inclusive {
		return p.test(limit, p.Value <= limit.Value, "<=")
	}
	return p.test(limit, p.Value < limit.Value, "<")
}

// CheckAboveLimit verifies p >= limit (inclusive) or p > limit.
func (p IntPara) CheckAboveLimit(limit IntPara, inclusive bool) error {
	if inclusive {
		return p.test(limit, p.Value >= limit.Value, ">=")
	}
	return p.test(limit, p.Value > limit.Value, ">")
}

func (p IntPara) test(limit IntPara, ok bool, op string) error {
	if p.Empty() || p.Name != limit.Name {
		return fmt.Errorf("%w: %s", ErrRequired, limit.Name)
	}
	if !ok {
		return fmt.Errorf("%w: parameter %q (must be %s %d)", ErrOutOfRange, p.Name, op, limit.Value)
	}
	return nil
}

func (p IntPara) MarshalBinary() ([]byte, error) {
	if p.Value > math.MaxInt32 || p.Value < math.MinInt32 {
		return nil, fmt.Errorf("integer parameter %q: value %d exceeds 32 bits", p.Name, p.Value)
	}
	buf := make([]byte, 0, 4+len(p.Name)+4)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Name)))
	buf = append(buf, p.Name...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(p.Value)))
	return buf, nil
}

func (p *IntPara) UnmarshalBinary(data []byte) error {
	d := decoder{data: data, what: "integer parameter"}
	name, err := d.string(math.MaxInt32)
	if err != nil {
		return err
	}
	v, err := d.uint32("value")
	if err != nil {
		return err
	}
	if err := d.done(); err != nil {
		return err
	}
	*p = IntPara{Name: name, Value: int(int32(v))}
	return nil
}
