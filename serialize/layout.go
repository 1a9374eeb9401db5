// Package serialize implements the declarative layout-descriptor
// serialization engine described by spec.md §4.A: one recursive
// driver dispatches on primitive-type x operation to perform
// size/serialize/deserialize/copy/destroy passes over records whose
// shape is described by a Layout, rather than writing bespoke
// marshalling code per type.
//
// Where original_source's C layout addresses fields by byte offset
// (serialization_layout.data_offset, computed with offsetof), this Go
// port addresses fields by struct field index
// (reflect.Value.FieldByIndex) — the safe, idiomatic equivalent that
// needs no unsafe pointer arithmetic.
package serialize

import "reflect"

// Op is the general serializer invocation type (spec.md's GSIT enum).
type Op int

const (
	OpInitZero Op = iota
	OpSize
	OpSerialize
	OpDeserialize
	OpCopy
	OpDestroy
)

func (o Op) String() string {
	switch o {
	case OpInitZero:
		return "init-zero"
	case OpSize:
		return "size"
	case OpSerialize:
		return "serialize"
	case OpDeserialize:
		return "deserialize"
	case OpCopy:
		return "copy"
	case OpDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Kind is a field's primitive type (spec.md's SL_TYPE, minus the
// PTR/ARRAY modifier bits, which are separate Field flags here).
type Kind int

const (
	KindBool Kind = iota
	KindU8
	KindU32
	KindU64
	KindSize
	KindString
	KindBlob
	KindComplex
	KindCustom
)

// LengthSpec gives the length of an array field: either an immediate
// fixed count, or the FieldIndex of a sibling int-typed length field
// in the same record (spec.md's "len.immediate" / "len.offset").
type LengthSpec struct {
	Immediate  int
	FieldIndex []int
}

func (l LengthSpec) hasFieldRef() bool {
	return len(l.FieldIndex) > 0
}

func (l LengthSpec) resolve(rec reflect.Value) int {
	if !l.hasFieldRef() {
		return l.Immediate
	}
	return int(rec.FieldByIndex(l.FieldIndex).Int())
}

func (l LengthSpec) assign(rec reflect.Value, n int) {
	if !l.hasFieldRef() {
		return
	}
	rec.FieldByIndex(l.FieldIndex).SetInt(int64(n))
}

// CustomSerializer is the interface a Field of KindCustom delegates
// to; it receives the same operation enum every other Field handler
// does (spec.md's custom_serializer_t signature). d is nil for
// OpCopy/OpDestroy/OpInitZero, which never touch the wire.
type CustomSerializer interface {
	Drive(op Op, fv reflect.Value, d *driveState) (int, error)
}

// Field is one entry in a Layout, spec.md's serialization_layout
// struct.
type Field struct {
	// Name documents the field for error messages; it plays no role
	// in addressing.
	Name string

	Kind  Kind
	Ptr   bool // field is pointed-to (nilable scalar)
	Array bool // field is a run (slice)

	// FieldIndex addresses the Go struct field this entry describes,
	// per reflect.Value.FieldByIndex.
	FieldIndex []int

	// Len gives the array length, immediate or via a sibling field.
	// Only meaningful when Array is true.
	Len LengthSpec

	// Nested describes a KindComplex field's own layout.
	Nested Layout

	// Custom is invoked for a KindCustom field.
	Custom CustomSerializer
}

// Layout is an ordered sequence of field entries. Unlike the C
// version, a Go Layout does not need an explicit STOP terminator: a
// Go slice already knows its own length.
type Layout []Field

// Blob names a KindBlob field's Go representation: a length-prefixed
// run of raw bytes. It is a plain alias rather than a wrapper struct
// because a Go slice already owns its backing array and length, so
// there is nothing a wrapper would add beyond the name.
type Blob = []byte
