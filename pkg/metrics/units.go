package metrics

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a CloudWatch standard unit name.
type Unit string

const (
	UnitBytes     Unit = "Bytes"
	UnitKilobytes Unit = "Kilobytes"
	UnitMegabytes Unit = "Megabytes"
	UnitGigabytes Unit = "Gigabytes"
	UnitPercent   Unit = "Percent"
	UnitCount     Unit = "Count"
)

var ErrInvalidUnit = errors.New("invalid unit")

// sizeDivisors maps byte-sized units to their byte divisor.
var sizeDivisors = map[Unit]float64{
	UnitBytes:     1,
	UnitKilobytes: 1024,
	UnitMegabytes: 1024 * 1024,
	UnitGigabytes: 1024 * 1024 * 1024,
}

// ParseSizeUnit resolves a CLI unit name (case-insensitive) to one of the
// four byte-sized units.
func ParseSizeUnit(name string) (Unit, error) {
	for u := range sizeDivisors {
		if strings.EqualFold(name, string(u)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: Bytes, Kilobytes, Megabytes, Gigabytes)", ErrInvalidUnit, name)
}

// Divisor returns the byte-scaling divisor for a size unit.
func (u Unit) Divisor() (float64, error) {
	d, ok := sizeDivisors[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, string(u))
	}
	return d, nil
}

func (u Unit) String() string { return string(u) }
