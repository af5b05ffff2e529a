// Package vector defines the columnar batches exchanged with the host.
//
// A batch column is a typed slice plus a Validity mask marking NULL rows.
// The value stored at a NULL row is unspecified and must not be read.
package vector

import "fmt"

// Type is the logical type of a column.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeText
	TypeInt64
	TypeBlob
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "VARCHAR"
	case TypeInt64:
		return "BIGINT"
	case TypeBlob:
		return "BLOB"
	case TypeBool:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Vector is a typed column of a batch.
type Vector interface {
	Type() Type
	Len() int
	IsNull(i int) bool
}

// Validity tracks NULL rows as a bitmask (bit set = NULL).
// The zero value has no NULLs.
type Validity struct {
	words []uint64
}

// SetNull marks row i as NULL.
func (v *Validity) SetNull(i int) {
	w := i / 64
	if w >= len(v.words) {
		grown := make([]uint64, w+1)
		copy(grown, v.words)
		v.words = grown
	}
	v.words[w] |= 1 << (uint(i) % 64)
}

// IsNull reports whether row i is NULL.
func (v *Validity) IsNull(i int) bool {
	w := i / 64
	if w >= len(v.words) {
		return false
	}
	return v.words[w]&(1<<(uint(i)%64)) != 0
}

// HasNulls reports whether any row is NULL.
func (v *Validity) HasNulls() bool {
	for _, w := range v.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// Text is a VARCHAR column.
type Text struct {
	Values []string
	Validity
}

// NewText returns a text column with n rows.
func NewText(n int) *Text { return &Text{Values: make([]string, n)} }

// TextOf returns a text column without NULLs.
func TextOf(values ...string) *Text { return &Text{Values: values} }

func (*Text) Type() Type { return TypeText }
func (c *Text) Len() int { return len(c.Values) }

// Int64 is a BIGINT column.
type Int64 struct {
	Values []int64
	Validity
}

// NewInt64 returns an int64 column with n rows.
func NewInt64(n int) *Int64 { return &Int64{Values: make([]int64, n)} }

// Int64Of returns an int64 column without NULLs.
func Int64Of(values ...int64) *Int64 { return &Int64{Values: values} }

func (*Int64) Type() Type { return TypeInt64 }
func (c *Int64) Len() int { return len(c.Values) }

// Blob is a BLOB column.
type Blob struct {
	Values [][]byte
	Validity
}

// NewBlob returns a blob column with n rows.
func NewBlob(n int) *Blob { return &Blob{Values: make([][]byte, n)} }

// BlobOf returns a blob column without NULLs.
func BlobOf(values ...[]byte) *Blob { return &Blob{Values: values} }

func (*Blob) Type() Type { return TypeBlob }
func (c *Blob) Len() int { return len(c.Values) }

// Bool is a BOOLEAN column.
type Bool struct {
	Values []bool
	Validity
}

// NewBool returns a bool column with n rows.
func NewBool(n int) *Bool { return &Bool{Values: make([]bool, n)} }

func (*Bool) Type() Type { return TypeBool }
func (c *Bool) Len() int { return len(c.Values) }

// AnyNull reports whether row i is NULL in any of the columns.
func AnyNull(i int, cols ...Vector) bool {
	for _, c := range cols {
		if c.IsNull(i) {
			return true
		}
	}
	return false
}
