package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type tuple interface {
	Tuple() []any
}

// Debug formats v the way example outputs are shown: quoted strings and
// runes, byte slices as fixed-width hex, lists in brackets, tuples in
// parentheses, nil pointers as None and non-nil ones as Some(...).
func Debug(v any) string {
	var b strings.Builder
	writeDebug(&b, reflect.ValueOf(v))
	return b.String()
}

func writeDebug(b *strings.Builder, v reflect.Value) {
	if !v.IsValid() {
		b.WriteString("None")
		return
	}
	if v.CanInterface() {
		if t, ok := v.Interface().(tuple); ok {
			writeList(b, "(", ")", t.Tuple())
			return
		}
	}
	switch v.Kind() {
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	case reflect.Int32:
		b.WriteString(strconv.QuoteRune(rune(v.Int())))
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("None")
			return
		}
		if v.Kind() == reflect.Interface {
			writeDebug(b, v.Elem())
			return
		}
		b.WriteString("Some(")
		writeDebug(b, v.Elem())
		b.WriteString(")")
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b.WriteString("[")
			for i := 0; i < v.Len(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(b, "0x%02x", v.Index(i).Uint())
			}
			b.WriteString("]")
			return
		}
		b.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeDebug(b, v.Index(i))
		}
		b.WriteString("]")
	case reflect.Struct:
		if v.NumField() == 0 {
			b.WriteString("()")
			return
		}
		if !v.CanInterface() {
			b.WriteString(v.Type().String())
			return
		}
		b.WriteString(collapse(fmt.Sprintf("%+v", v.Interface())))
	default:
		if v.CanInterface() {
			b.WriteString(collapse(fmt.Sprintf("%v", v.Interface())))
			return
		}
		b.WriteString(collapse(v.String()))
	}
}

func writeList(b *strings.Builder, open, close string, items []any) {
	b.WriteString(open)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeDebug(b, reflect.ValueOf(item))
	}
	b.WriteString(close)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
