package timeseria

import (
	"sort"
	"strconv"
)

// DataKind discriminates the three payload shapes a Data value can carry,
// mirroring the scalar/vector/mapping union in spec §3. It plays the same
// role the teacher repo's StatusCode played for observation validity
// (types.go): a small, explicit, type-safe enum instead of an
// isinstance/len/keys chain checked on every append.
type DataKind uint8

const (
	DataScalar DataKind = iota
	DataVector
	DataMapping
)

// Data is a payload: exactly one of a scalar, an ordered vector of reals, or
// a label->real mapping. The zero value is a scalar of 0.
type Data struct {
	kind    DataKind
	scalar  float64
	vector  []float64
	mapping map[string]float64
}

// NewScalarData builds a scalar Data value.
func NewScalarData(v float64) Data {
	return Data{kind: DataScalar, scalar: v}
}

// NewVectorData builds a vector Data value from a copy of v.
func NewVectorData(v []float64) Data {
	cp := append([]float64(nil), v...)
	return Data{kind: DataVector, vector: cp}
}

// NewMappingData builds a mapping Data value from a copy of m.
func NewMappingData(m map[string]float64) Data {
	cp := make(map[string]float64, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Data{kind: DataMapping, mapping: cp}
}

// Kind reports which payload shape d carries.
func (d Data) Kind() DataKind { return d.kind }

// Labels returns the canonical ordered labels for d: "0" for a scalar,
// stringified vector indices for a vector, or sorted mapping keys.
func (d Data) Labels() []string {
	switch d.kind {
	case DataScalar:
		return []string{"0"}
	case DataVector:
		labels := make([]string, len(d.vector))
		for i := range d.vector {
			labels[i] = strconv.Itoa(i)
		}
		return labels
	case DataMapping:
		keys := make([]string, 0, len(d.mapping))
		for k := range d.mapping {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	default:
		return nil
	}
}

// Get returns the value at label, and whether label is valid for d's shape.
func (d Data) Get(label string) (float64, bool) {
	switch d.kind {
	case DataScalar:
		if label == "0" {
			return d.scalar, true
		}
		return 0, false
	case DataVector:
		idx, err := strconv.Atoi(label)
		if err != nil || idx < 0 || idx >= len(d.vector) {
			return 0, false
		}
		return d.vector[idx], true
	case DataMapping:
		v, ok := d.mapping[label]
		return v, ok
	default:
		return 0, false
	}
}

// Set mutates the value at label in place and reports whether label was
// valid for d's shape. Reconstructors use this to update an element's
// payload without changing its shape.
func (d *Data) Set(label string, value float64) bool {
	switch d.kind {
	case DataScalar:
		if label != "0" {
			return false
		}
		d.scalar = value
		return true
	case DataVector:
		idx, err := strconv.Atoi(label)
		if err != nil || idx < 0 || idx >= len(d.vector) {
			return false
		}
		d.vector[idx] = value
		return true
	case DataMapping:
		if _, ok := d.mapping[label]; !ok {
			return false
		}
		d.mapping[label] = value
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	switch d.kind {
	case DataVector:
		return NewVectorData(d.vector)
	case DataMapping:
		return NewMappingData(d.mapping)
	default:
		return d
	}
}

// Shape returns the shape fingerprint of d: a discriminated union of
// scalar-kind, vector-length, or sorted-key-tuple, captured once at first
// append and compared cheaply on every later append (spec §9).
func (d Data) Shape() DataShape {
	switch d.kind {
	case DataVector:
		return DataShape{kind: DataVector, vectorLen: len(d.vector)}
	case DataMapping:
		keys := make([]string, 0, len(d.mapping))
		for k := range d.mapping {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return DataShape{kind: DataMapping, keys: keys}
	default:
		return DataShape{kind: DataScalar}
	}
}

// DataShape is the cheap, comparable fingerprint of a Data value's shape.
type DataShape struct {
	kind      DataKind
	vectorLen int
	keys      []string
}

// Equal reports whether two shapes are identical: same kind, same vector
// length (for vectors), same key set in the same order (for mappings).
func (s DataShape) Equal(o DataShape) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case DataVector:
		return s.vectorLen == o.vectorLen
	case DataMapping:
		if len(s.keys) != len(o.keys) {
			return false
		}
		for i := range s.keys {
			if s.keys[i] != o.keys[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// ZeroData returns a Data value of the given shape with every component set
// to 0. Used by the resampler to emit a zero-filled, coverage=0 slot when no
// source point overlaps it (spec §4.C.3).
func ZeroData(shape DataShape) Data {
	switch shape.kind {
	case DataVector:
		return NewVectorData(make([]float64, shape.vectorLen))
	case DataMapping:
		m := make(map[string]float64, len(shape.keys))
		for _, k := range shape.keys {
			m[k] = 0
		}
		return NewMappingData(m)
	default:
		return NewScalarData(0)
	}
}

// DataIndexes is the per-element quality side channel, distinct from the
// payload itself (spec §3, design note §9): data loss, whether the element
// was reconstructed, and whether it was flagged anomalous. Fields are
// pointers so "not computed" is distinguishable from "computed as zero",
// matching the nullable-record approach the design notes prescribe for a
// systems language in place of the dynamic language's per-element map.
type DataIndexes struct {
	DataLoss          *float64
	DataReconstructed *float64
	Anomaly           *float64
}

// Loss returns the data_loss index, or 0 if it was never set.
func (x DataIndexes) Loss() float64 {
	if x.DataLoss == nil {
		return 0
	}
	return *x.DataLoss
}

// SetLoss records a data_loss value (e.g. 1-coverage from the resampler).
func (x *DataIndexes) SetLoss(loss float64) {
	v := loss
	x.DataLoss = &v
}

// Reconstructed reports whether this element was reconstructed.
func (x DataIndexes) Reconstructed() bool {
	return x.DataReconstructed != nil && *x.DataReconstructed == 1
}

// MarkReconstructed stamps data_reconstructed=1 (spec §4.E Reconstruction).
func (x *DataIndexes) MarkReconstructed() {
	v := 1.0
	x.DataReconstructed = &v
}

// IsAnomaly reports whether the anomaly flag is set to 1.
func (x DataIndexes) IsAnomaly() bool {
	return x.Anomaly != nil && *x.Anomaly == 1
}

// SetAnomaly stamps the anomaly index to 1 or 0 (spec §4.G Apply).
func (x *DataIndexes) SetAnomaly(flag bool) {
	v := 0.0
	if flag {
		v = 1.0
	}
	x.Anomaly = &v
}
