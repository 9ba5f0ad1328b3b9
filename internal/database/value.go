package database

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
	KindBoolean
	KindDateTime
	KindOther // driver type we do not recognize, carried as-is
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	case KindBoolean:
		return "boolean"
	case KindDateTime:
		return "datetime"
	default:
		return "other"
	}
}

// Value is a single result cell. Exactly one payload field is meaningful,
// selected by Kind.
type Value struct {
	Kind  Kind
	Int   int64
	Real  float64
	Text  string
	Blob  []byte
	Bool  bool
	Time  time.Time
	Other any
}

// Null is the value of a database NULL.
var Null = Value{Kind: KindNull}

func IntegerValue(v int64) Value { return Value{Kind: KindInteger, Int: v} }
func RealValue(v float64) Value { return Value{Kind: KindReal, Real: v} }
func TextValue(v string) Value { return Value{Kind: KindText, Text: v} }
func BlobValue(v []byte) Value { return Value{Kind: KindBlob, Blob: v} }
func BooleanValue(v bool) Value { return Value{Kind: KindBoolean, Bool: v} }
func DateTimeValue(v time.Time) Value { return Value{Kind: KindDateTime, Time: v} }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// FromNative converts a value scanned from database/sql into a Value.
// It never fails: unknown driver types pass through as KindOther.
func FromNative(src any) Value {
	switch s := src.(type) {
	case nil:
		return Null
	case int64:
		return IntegerValue(s)
	case int:
		return IntegerValue(int64(s))
	case int32:
		return IntegerValue(int64(s))
	case float64:
		return RealValue(s)
	case float32:
		return RealValue(float64(s))
	case string:
		return TextValue(s)
	case []byte:
		// database/sql reuses scan buffers between rows
		b := make([]byte, len(s))
		copy(b, s)
		return BlobValue(b)
	case bool:
		return BooleanValue(s)
	case time.Time:
		return DateTimeValue(s)
	default:
		return Value{Kind: KindOther, Other: src}
	}
}

// ConvertCell converts a scanned cell using the column's declared type
// to disambiguate raw bytes: drivers may hand back TEXT-affinity values
// as []byte.
func ConvertCell(col Column, src any) Value {
	if b, ok := src.([]byte); ok && hasTextAffinity(col.DeclaredType) {
		return TextValue(string(b))
	}
	return FromNative(src)
}

// hasTextAffinity applies SQLite's type affinity rules: INT wins over
// the text markers.
func hasTextAffinity(declared string) bool {
	t := NormalizeType(declared)
	if strings.Contains(t, "INT") {
		return false
	}
	return strings.Contains(t, "CHAR") || strings.Contains(t, "CLOB") || strings.Contains(t, "TEXT")
}

// Native returns the Go value carried by v; nil for the null variant.
func (v Value) Native() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindText:
		return v.Text
	case KindBlob:
		return v.Blob
	case KindBoolean:
		return v.Bool
	case KindDateTime:
		return v.Time
	case KindOther:
		return v.Other
	default:
		return nil
	}
}

// String renders v for display. NULL renders as "NULL".
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case KindText:
		return v.Text
	case KindBlob:
		if len(v.Blob) > 32 {
			return fmt.Sprintf("x'%s…' (%d bytes)", hex.EncodeToString(v.Blob[:32]), len(v.Blob))
		}
		return "x'" + hex.EncodeToString(v.Blob) + "'"
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindDateTime:
		return v.Time.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v.Other)
	}
}
