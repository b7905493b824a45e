// ABOUTME: Encoder for the PHP serialize() text format used by legacy API clients.
// ABOUTME: Emits length-prefixed, type-tagged values, arrays and stdClass objects.

package phpserial

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// StdClassName is the class PHP assigns to objects produced by an (object) cast.
const StdClassName = "stdClass"

// Property is a single named object property. Order is preserved on output.
type Property struct {
	Name  string
	Value any
}

// Object is a PHP object with ordered properties.
type Object struct {
	Class      string
	Properties []Property
}

// NewStdClass returns an empty stdClass object.
func NewStdClass() *Object {
	return &Object{Class: StdClassName}
}

// Set appends a property, or replaces the value if the name already exists.
func (o *Object) Set(name string, value any) *Object {
	for i := range o.Properties {
		if o.Properties[i].Name == name {
			o.Properties[i].Value = value
			return o
		}
	}
	o.Properties = append(o.Properties, Property{Name: name, Value: value})
	return o
}

// StdClasser is implemented by values that convert themselves to a plain
// object before being serialized for legacy clients.
type StdClasser interface {
	ToStdClass() *Object
}

// ObjectFromMap casts a map to a stdClass object the way PHP's (object) cast
// does. Keys are sorted so output is deterministic.
func ObjectFromMap(m map[string]any) *Object {
	obj := NewStdClass()
	for _, k := range sortedKeys(m) {
		obj.Properties = append(obj.Properties, Property{Name: k, Value: m[k]})
	}
	return obj
}

// Marshal returns the PHP serialize() encoding of v.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("N;")
	case StdClasser:
		return encodeObject(buf, t.ToStdClass())
	case *Object:
		if t == nil {
			buf.WriteString("N;")
			return nil
		}
		return encodeObject(buf, t)
	case Object:
		return encodeObject(buf, &t)
	case bool:
		if t {
			buf.WriteString("b:1;")
		} else {
			buf.WriteString("b:0;")
		}
	case string:
		writeString(buf, t)
	case []byte:
		writeString(buf, string(t))
	case int:
		writeInt(buf, int64(t))
	case int8:
		writeInt(buf, int64(t))
	case int16:
		writeInt(buf, int64(t))
	case int32:
		writeInt(buf, int64(t))
	case int64:
		writeInt(buf, t)
	case uint8:
		writeInt(buf, int64(t))
	case uint16:
		writeInt(buf, int64(t))
	case uint32:
		writeInt(buf, int64(t))
	case uint:
		writeUint(buf, uint64(t))
	case uint64:
		writeUint(buf, t)
	case uintptr:
		writeUint(buf, uint64(t))
	case float32:
		writeFloat(buf, float64(t))
	case float64:
		writeFloat(buf, t)
	case []any:
		fmt.Fprintf(buf, "a:%d:{", len(t))
		for i, item := range t {
			writeInt(buf, int64(i))
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case map[string]any:
		fmt.Fprintf(buf, "a:%d:{", len(t))
		for _, k := range sortedKeys(t) {
			writeArrayKey(buf, k)
			if err := encode(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case map[string]string:
		fmt.Fprintf(buf, "a:%d:{", len(t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			writeArrayKey(buf, k)
			writeString(buf, t[k])
		}
		buf.WriteByte('}')
	default:
		return encodeReflect(buf, v)
	}
	return nil
}

// encodeReflect handles typed slices such as []PluginRecord.
func encodeReflect(buf *bytes.Buffer, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			buf.WriteString("a:0:{}")
			return nil
		}
		fmt.Fprintf(buf, "a:%d:{", rv.Len())
		for i := 0; i < rv.Len(); i++ {
			writeInt(buf, int64(i))
			if err := encode(buf, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case reflect.Pointer:
		if rv.IsNil() {
			buf.WriteString("N;")
			return nil
		}
		return encode(buf, rv.Elem().Interface())
	}
	return fmt.Errorf("phpserial: unsupported type %T", v)
}

func encodeObject(buf *bytes.Buffer, obj *Object) error {
	class := obj.Class
	if class == "" {
		class = StdClassName
	}
	fmt.Fprintf(buf, "O:%d:\"%s\":%d:{", len(class), class, len(obj.Properties))
	for _, p := range obj.Properties {
		writeString(buf, p.Name)
		if err := encode(buf, p.Value); err != nil {
			return fmt.Errorf("property %q: %w", p.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	fmt.Fprintf(buf, "s:%d:\"%s\";", len(s), s)
}

func writeInt(buf *bytes.Buffer, n int64) {
	buf.WriteString("i:")
	buf.WriteString(strconv.FormatInt(n, 10))
	buf.WriteByte(';')
}

// writeUint emits values past the int64 range as floats, as PHP does when an
// integer overflows.
func writeUint(buf *bytes.Buffer, n uint64) {
	if n > math.MaxInt64 {
		writeFloat(buf, float64(n))
		return
	}
	writeInt(buf, int64(n))
}

func writeFloat(buf *bytes.Buffer, f float64) {
	buf.WriteString("d:")
	buf.WriteString(formatFloat(f))
	buf.WriteByte(';')
}

// writeArrayKey emits integer-like keys as integers, matching PHP's array key
// normalization ("10" becomes 10, "010" stays a string).
func writeArrayKey(buf *bytes.Buffer, k string) {
	if n, ok := canonicalInt(k); ok {
		writeInt(buf, n)
		return
	}
	writeString(buf, k)
}

func canonicalInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatInt(n, 10) != s {
		return 0, false
	}
	return n, true
}

// formatFloat mirrors PHP's serialize_precision=-1 output.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expStr, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expStr)
	if exp >= -4 && exp < 17 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	return mantissa + "E" + sign + strconv.Itoa(exp)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
