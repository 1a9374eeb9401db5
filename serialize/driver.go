package serialize

import (
	"bytes"
	"encoding/binary"
	"reflect"

	"github.com/go-surena/surena/internal/errcode"
)

// ErrSize is the sentinel error returned by Size/Serialize/Deserialize
// on a bounds violation (spec.md's LS_ERR). It is always an
// *errcode.Error with Code errcode.InvalidInput so callers that only
// care about the error-code taxonomy can switch on it uniformly.
var ErrSize = errcode.New(errcode.InvalidInput)

// driveState threads the write sink (Serialize) or read source
// (Deserialize) through a recursive Drive call. Exactly one of w/r is
// non-nil for a given top-level call.
type driveState struct {
	w *bytes.Buffer
	r *bytes.Reader
}

// readBounded reads n bytes from the reader, returning ErrSize if
// fewer than n bytes remain — the Go analogue of checking every read
// against buf_end before touching it.
func (d *driveState) readBounded(n int) ([]byte, error) {
	if n < 0 || d.r.Len() < n {
		return nil, ErrSize
	}
	out := make([]byte, n)
	if _, err := d.r.Read(out); err != nil {
		return nil, ErrSize
	}
	return out, nil
}

// Size returns the exact wire length the record would serialize to.
// It is implemented by actually serializing into a scratch buffer:
// this guarantees, by construction, that Size and Serialize always
// agree on length (spec.md testable property 2), which a hand-rolled
// parallel size-only pass could drift from under maintenance.
func Size(layout Layout, recPtr any) (int, error) {
	buf, err := Serialize(layout, recPtr)
	if err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Serialize encodes recPtr (a pointer to a struct matching layout)
// into a freshly allocated byte slice.
func Serialize(layout Layout, recPtr any) ([]byte, error) {
	rec := reflect.ValueOf(recPtr).Elem()
	d := &driveState{w: &bytes.Buffer{}}
	if err := driveLayout(OpSerialize, layout, rec, d); err != nil {
		return nil, err
	}
	return d.w.Bytes(), nil
}

// Deserialize decodes buf into recPtr (a pointer to a struct matching
// layout, which must be zero-valued — every implementation invariant
// here assumes a zero-initialized record is always destroyable, so a
// failed deserialize can be unwound with Destroy). It returns the
// number of bytes consumed from buf.
func Deserialize(layout Layout, recPtr any, buf []byte) (int, error) {
	rec := reflect.ValueOf(recPtr).Elem()
	d := &driveState{r: bytes.NewReader(buf)}
	if err := driveLayout(OpDeserialize, layout, rec, d); err != nil {
		// Partial deserialization is unwound using the same layout,
		// guaranteeing no leaks (a Go GC has no leaks in the memory
		// sense, but this still resets the record to its zero state
		// so the caller cannot observe a half-built value).
		_ = Destroy(layout, recPtr)
		return 0, err
	}
	return len(buf) - d.r.Len(), nil
}

// Copy deep-copies srcPtr into dstPtr, field by field, allocating
// independent backing storage for every pointer/slice/string so that
// destroying one side never affects the other.
func Copy(layout Layout, dstPtr, srcPtr any) error {
	dst := reflect.ValueOf(dstPtr).Elem()
	src := reflect.ValueOf(srcPtr).Elem()
	return driveCopy(layout, dst, src)
}

// Destroy resets recPtr's fields described by layout to their zero
// values, recursively for nested KindComplex fields.
func Destroy(layout Layout, recPtr any) error {
	rec := reflect.ValueOf(recPtr).Elem()
	return driveLayout(OpDestroy, layout, rec, nil)
}

// InitZero is Destroy's twin for a record that hasn't been populated
// yet; it exists so call sites can name their intent (spec.md keeps
// INITZERO and DESTROY as distinct operation-enum values even though
// both leave a record in the same zero state).
func InitZero(layout Layout, recPtr any) error {
	return Destroy(layout, recPtr)
}

// driveCopy deep-copies one record onto another, field by field. It
// is a separate recursion from driveLayout because COPY is the one
// operation that needs both a source and a destination value at
// once — every other Op only ever touches a single record.
func driveCopy(layout Layout, dst, src reflect.Value) error {
	for _, f := range layout {
		dfv := dst.FieldByIndex(f.FieldIndex)
		sfv := src.FieldByIndex(f.FieldIndex)
		if err := copyField(f, dst, dfv, sfv); err != nil {
			return err
		}
	}
	return nil
}

func copyField(f Field, dstRec reflect.Value, dfv, sfv reflect.Value) error {
	switch {
	case f.Array:
		n := sfv.Len()
		if sfv.Kind() == reflect.Array {
			for i := 0; i < n; i++ {
				if err := copyLeaf(f, dfv.Index(i), sfv.Index(i)); err != nil {
					return err
				}
			}
			return nil
		}
		slice := reflect.MakeSlice(sfv.Type(), n, n)
		for i := 0; i < n; i++ {
			if err := copyLeaf(f, slice.Index(i), sfv.Index(i)); err != nil {
				return err
			}
		}
		dfv.Set(slice)
		f.Len.assign(dstRec, n)
		return nil
	case f.Ptr:
		if sfv.IsNil() {
			dfv.Set(reflect.Zero(dfv.Type()))
			return nil
		}
		elem := reflect.New(sfv.Type().Elem())
		if err := copyLeaf(f, elem.Elem(), sfv.Elem()); err != nil {
			return err
		}
		dfv.Set(elem)
		return nil
	default:
		return copyLeaf(f, dfv, sfv)
	}
}

func copyLeaf(f Field, dfv, sfv reflect.Value) error {
	switch f.Kind {
	case KindString:
		if sfv.IsNil() {
			dfv.Set(reflect.Zero(dfv.Type()))
			return nil
		}
		s := sfv.Elem().String()
		dfv.Set(reflect.ValueOf(&s))
		return nil
	case KindBlob:
		b := make([]byte, sfv.Len())
		copy(b, sfv.Bytes())
		dfv.SetBytes(b)
		return nil
	case KindComplex:
		return driveCopy(f.Nested, dfv, sfv)
	case KindCustom:
		_, err := f.Custom.Drive(OpCopy, sfv, nil)
		if err != nil {
			return err
		}
		dfv.Set(sfv)
		return nil
	default:
		dfv.Set(sfv)
		return nil
	}
}

func driveLayout(op Op, layout Layout, rec reflect.Value, d *driveState) error {
	for _, f := range layout {
		if err := driveField(op, f, rec, d); err != nil {
			return err
		}
	}
	return nil
}

func driveField(op Op, f Field, rec reflect.Value, d *driveState) error {
	fv := rec.FieldByIndex(f.FieldIndex)

	switch {
	case f.Array:
		return driveArray(op, f, fv, rec, d)
	case f.Ptr:
		return drivePtr(op, f, fv, d)
	default:
		return driveScalar(op, f, fv, d)
	}
}

func driveArray(op Op, f Field, fv reflect.Value, rec reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		n := fv.Len()
		if f.Len.hasFieldRef() {
			// a fixed-size array (Len.Immediate) needs no length on
			// the wire, both sides already know it; a sibling-length
			// array writes its count first so Deserialize knows how
			// many elements to read back.
			if err := writeU64(d, uint64(n)); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			if err := driveElem(op, f, fv.Index(i), d); err != nil {
				return err
			}
		}
		return nil
	case OpDeserialize:
		n := f.Len.Immediate
		if f.Len.hasFieldRef() {
			v, err := readU64(d)
			if err != nil {
				return err
			}
			n = int(v)
		}
		// A fixed-size Go array (spec.md's compile-time-length runs,
		// e.g. a 3x3 board) is addressed in place; a slice needs
		// fresh backing storage sized to the count just read.
		if fv.Kind() == reflect.Array {
			for i := 0; i < n; i++ {
				if err := driveElem(op, f, fv.Index(i), d); err != nil {
					return err
				}
			}
			return nil
		}
		slice := reflect.MakeSlice(fv.Type(), n, n)
		for i := 0; i < n; i++ {
			if err := driveElem(op, f, slice.Index(i), d); err != nil {
				return err
			}
		}
		fv.Set(slice)
		f.Len.assign(rec, n)
		return nil
	case OpDestroy, OpInitZero:
		fv.Set(reflect.Zero(fv.Type()))
		f.Len.assign(rec, 0)
		return nil
	default:
		return nil
	}
}

func driveElem(op Op, f Field, ev reflect.Value, d *driveState) error {
	elemField := Field{Kind: f.Kind, Nested: f.Nested, Custom: f.Custom, FieldIndex: nil}
	return driveLeaf(op, elemField, ev, d)
}

func drivePtr(op Op, f Field, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		if fv.IsNil() {
			return writeByte(d, 0x00)
		}
		if err := writeByte(d, 0xFF); err != nil {
			return err
		}
		return driveLeaf(op, Field{Kind: f.Kind, Nested: f.Nested, Custom: f.Custom}, fv.Elem(), d)
	case OpDeserialize:
		present, err := readByte(d)
		if err != nil {
			return err
		}
		if present == 0x00 {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		elem := reflect.New(fv.Type().Elem())
		if err := driveLeaf(op, Field{Kind: f.Kind, Nested: f.Nested, Custom: f.Custom}, elem.Elem(), d); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	case OpDestroy, OpInitZero:
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	default:
		return nil
	}
}

func driveScalar(op Op, f Field, fv reflect.Value, d *driveState) error {
	return driveLeaf(op, f, fv, d)
}

// driveLeaf drives a single non-array, non-ptr-wrapped value: a
// primitive, a string, a blob, a nested complex record, or a custom
// type.
func driveLeaf(op Op, f Field, fv reflect.Value, d *driveState) error {
	switch f.Kind {
	case KindBool:
		return driveBool(op, fv, d)
	case KindU8:
		return driveU8(op, fv, d)
	case KindU32:
		return driveU32(op, fv, d)
	case KindU64, KindSize:
		return driveU64(op, fv, d)
	case KindString:
		return driveString(op, fv, d)
	case KindBlob:
		return driveBlob(op, fv, d)
	case KindComplex:
		return driveComplex(op, f.Nested, fv, d)
	case KindCustom:
		_, err := f.Custom.Drive(op, fv, d)
		return err
	default:
		return nil
	}
}

func driveBool(op Op, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		b := byte(0)
		if fv.Bool() {
			b = 1
		}
		return writeByte(d, b)
	case OpDeserialize:
		b, err := readByte(d)
		if err != nil {
			return err
		}
		fv.SetBool(b != 0)
		return nil
	case OpDestroy, OpInitZero:
		fv.SetBool(false)
		return nil
	default:
		return nil
	}
}

func driveU8(op Op, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		return writeByte(d, byte(fv.Uint()))
	case OpDeserialize:
		b, err := readByte(d)
		if err != nil {
			return err
		}
		fv.SetUint(uint64(b))
		return nil
	case OpDestroy, OpInitZero:
		fv.SetUint(0)
		return nil
	default:
		return nil
	}
}

func driveU32(op Op, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(fv.Uint()))
		return writeBytes(d, b[:])
	case OpDeserialize:
		b, err := d.readBounded(4)
		if err != nil {
			return err
		}
		fv.SetUint(uint64(binary.BigEndian.Uint32(b)))
		return nil
	case OpDestroy, OpInitZero:
		fv.SetUint(0)
		return nil
	default:
		return nil
	}
}

func driveU64(op Op, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		return writeU64(d, asU64(fv))
	case OpDeserialize:
		v, err := readU64(d)
		if err != nil {
			return err
		}
		setU64(fv, v)
		return nil
	case OpDestroy, OpInitZero:
		setU64(fv, 0)
		return nil
	default:
		return nil
	}
}

// asU64/setU64 let KindU64/KindSize share one codec across Go's
// uint64 and int (spec.md's size_t) field types.
func asU64(fv reflect.Value) uint64 {
	if fv.Kind() == reflect.Int {
		return uint64(fv.Int())
	}
	return fv.Uint()
}

func setU64(fv reflect.Value, v uint64) {
	if fv.Kind() == reflect.Int {
		fv.SetInt(int64(v))
		return
	}
	fv.SetUint(v)
}

// driveString implements spec.md's null/empty/non-empty string
// encoding: null -> 0x00 0x00; empty -> 0x00 0xFF; non-empty -> bytes
// + 0x00. The field type is *string so nil is representable.
func driveString(op Op, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		if fv.IsNil() {
			return writeBytes(d, []byte{0x00, 0x00})
		}
		s := fv.Elem().String()
		if s == "" {
			return writeBytes(d, []byte{0x00, 0xFF})
		}
		if err := writeBytes(d, []byte(s)); err != nil {
			return err
		}
		return writeByte(d, 0x00)
	case OpDeserialize:
		first, err := readByte(d)
		if err != nil {
			return err
		}
		if first == 0x00 {
			marker, err := readByte(d)
			if err != nil {
				return err
			}
			switch marker {
			case 0x00:
				fv.Set(reflect.Zero(fv.Type()))
				return nil
			case 0xFF:
				empty := ""
				fv.Set(reflect.ValueOf(&empty))
				return nil
			default:
				return ErrSize
			}
		}
		var sb []byte
		sb = append(sb, first)
		for {
			b, err := readByte(d)
			if err != nil {
				return err
			}
			if b == 0x00 {
				break
			}
			sb = append(sb, b)
		}
		s := string(sb)
		fv.Set(reflect.ValueOf(&s))
		return nil
	case OpDestroy, OpInitZero:
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	default:
		return nil
	}
}

// driveBlob implements spec.md's blob encoding: size_t length
// followed by raw bytes. The field type is []byte.
func driveBlob(op Op, fv reflect.Value, d *driveState) error {
	switch op {
	case OpSerialize:
		b := fv.Bytes()
		if err := writeU64(d, uint64(len(b))); err != nil {
			return err
		}
		return writeBytes(d, b)
	case OpDeserialize:
		n, err := readU64(d)
		if err != nil {
			return err
		}
		b, err := d.readBounded(int(n))
		if err != nil {
			return err
		}
		fv.SetBytes(b)
		return nil
	case OpDestroy, OpInitZero:
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	default:
		return nil
	}
}

func driveComplex(op Op, nested Layout, fv reflect.Value, d *driveState) error {
	return driveLayout(op, nested, fv, d)
}

func writeByte(d *driveState, b byte) error {
	d.w.WriteByte(b)
	return nil
}

func writeBytes(d *driveState, b []byte) error {
	d.w.Write(b)
	return nil
}

func writeU64(d *driveState, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return writeBytes(d, b[:])
}

func readByte(d *driveState) (byte, error) {
	b, err := d.readBounded(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func readU64(d *driveState) (uint64, error) {
	b, err := d.readBounded(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
