package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Dimension is a name/value tag attached to a datum.
type Dimension struct {
	Name  string
	Value string
}

// Datum is one named, timestamped, dimensioned observation. Immutable once
// appended to a batch.
type Datum struct {
	Name       string
	Unit       Unit
	Value      float64
	Timestamp  time.Time
	Dimensions []Dimension
}

func (d Datum) String() string {
	dims := make([]string, len(d.Dimensions))
	for i, dim := range d.Dimensions {
		dims[i] = dim.Name + "=" + dim.Value
	}
	return fmt.Sprintf("%s: %.2f %s [%s]", d.Name, d.Value, d.Unit, strings.Join(dims, ", "))
}
