package render

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// ErrNotSubspan means an error location does not alias the input it is
// reported against.
var ErrNotSubspan = errors.New("location is not a sub-span of the input")

// Offset returns the byte offset of location inside input. Both must be
// strings or byte slices, and location must share input's backing array:
// the position is found by address, not by searching for equal bytes.
//
// An empty location carries no usable address, so it is reported at the end
// of input.
func Offset(input, location any) (int, error) {
	ip, il, ok := span(input)
	if !ok {
		return 0, fmt.Errorf("unsupported input type %T", input)
	}
	lp, ll, ok := span(location)
	if !ok {
		return 0, fmt.Errorf("unsupported location type %T", location)
	}
	if ll == 0 {
		return il, nil
	}
	if lp < ip || lp-ip > uintptr(il) || int(lp-ip)+ll > il {
		return 0, fmt.Errorf("%w: location of %d bytes, input of %d bytes", ErrNotSubspan, ll, il)
	}
	return int(lp - ip), nil
}

func span(v any) (uintptr, int, bool) {
	switch s := v.(type) {
	case string:
		return uintptr(unsafe.Pointer(unsafe.StringData(s))), len(s), true
	case []byte:
		return uintptr(unsafe.Pointer(unsafe.SliceData(s))), len(s), true
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		s := rv.String()
		return uintptr(unsafe.Pointer(unsafe.StringData(s))), len(s), true
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8:
		return rv.Pointer(), rv.Len(), true
	}
	return 0, 0, false
}
