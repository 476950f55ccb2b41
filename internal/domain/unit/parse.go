package unit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a unit table and builds a Registry.
//
// The table is a sequence of dimension groups separated by ';' or newlines.
// Each group starts with the base unit name, followed by any number of
// "<op> <factor> <name>" triples where op is one of + - * / %.
// '#' starts a comment running to the end of the line.
//
//	m    * 1e+03 mm    * 1e+02 cm ;
//	K    - 273.15 C ;
//
// Ids are assigned densely in declaration order.
func Parse(r io.Reader, opts ...Option) (*Registry, error) {
	b := newBuilder(opts...)

	group := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, chunk := range strings.Split(line, ";") {
			fields := strings.Fields(chunk)
			if len(fields) == 0 {
				continue
			}
			group++
			if err := b.addGroup(fields); err != nil {
				return nil, fmt.Errorf("group %d: %w", group, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read unit table: %w", err)
	}
	return b.build()
}

// ParseString is Parse over an in-memory table.
func ParseString(table string, opts ...Option) (*Registry, error) {
	return Parse(strings.NewReader(table), opts...)
}

// addGroup appends one base unit and its derived units.
func (b *builder) addGroup(fields []string) error {
	baseName := fields[0]
	baseID, err := b.add(Descriptor{Name: baseName, Factor: 1, Op: OpNone}, true)
	if err != nil {
		return err
	}

	rest := fields[1:]
	if len(rest)%3 != 0 {
		return fmt.Errorf("%w: incomplete conversion after base unit %q (got %d trailing tokens)",
			ErrMalformedInput, baseName, len(rest)%3)
	}
	for i := 0; i < len(rest); i += 3 {
		opTok, factorTok, name := rest[i], rest[i+1], rest[i+2]
		if len(opTok) != 1 {
			return fmt.Errorf("%w: invalid operation %q before unit %q", ErrMalformedInput, opTok, name)
		}
		op, ok := opChars[opTok[0]]
		if !ok {
			return fmt.Errorf("%w: invalid operation %q before unit %q", ErrMalformedInput, opTok, name)
		}
		factor, err := strconv.ParseFloat(factorTok, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid factor %q for unit %q", ErrMalformedInput, factorTok, name)
		}

		d := Descriptor{Name: name, BaseID: baseID, Factor: factor, Op: op}
		if op == OpSpecial {
			t, err := resolveSpecial(name, baseName)
			if err != nil {
				return err
			}
			d.Special = t
		} else if factor == 0 {
			b.log.Warn().Str("unit", name).Str("base", baseName).
				Msg("zero conversion factor on non-special unit")
		}
		if _, err := b.add(d, false); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the registry back in table grammar, one group per line.
// Parsing the output yields a registry with identical ids.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for i, d := range r.units {
		if d.IsBase() {
			if i > 0 {
				sb.WriteString(";\n")
			}
			fmt.Fprintf(&sb, "%-12s", d.Name)
			continue
		}
		fmt.Fprintf(&sb, " %c %s %s", d.Op.Char(), strconv.FormatFloat(d.Factor, 'g', -1, 64), d.Name)
	}
	sb.WriteString(";\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
