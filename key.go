package memo

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type keyKind uint8

const (
	keyInt keyKind = iota
	keyString
)

// Key addresses a memoized value. It holds either an integer or a string
// and is comparable, so it can be used directly as a map key.
// The zero Key is the integer 0.
type Key struct {
	kind keyKind
	n    int64
	s    string
}

// Keyable lists the Go types KeyOf accepts.
type Keyable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~string
}

// IntKey returns an integer key.
// @group Keys
//
// Example: integer key
//
//	k := memo.IntKey(42)
//	fmt.Println(k) // 42
func IntKey(n int64) Key {
	return Key{kind: keyInt, n: n}
}

// StringKey returns a text key.
// @group Keys
//
// Example: string key
//
//	k := memo.StringKey("user:42")
//	fmt.Println(k) // user:42
func StringKey(s string) Key {
	return Key{kind: keyString, s: s}
}

// KeyOf builds a Key from any integer or string type.
// @group Keys
//
// Example: key from a named type
//
//	type UserID int
//	fmt.Println(memo.KeyOf(UserID(7)).IsInt()) // true
func KeyOf[K Keyable](k K) Key {
	v := reflect.ValueOf(k)
	switch v.Kind() {
	case reflect.String:
		return StringKey(v.String())
	case reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return IntKey(int64(v.Uint()))
	default:
		return IntKey(v.Int())
	}
}

// IsInt reports whether k is an integer key.
func (k Key) IsInt() bool { return k.kind == keyInt }

// Int returns the integer held by k.
func (k Key) Int() (int64, bool) {
	if k.kind != keyInt {
		return 0, false
	}
	return k.n, true
}

// Text returns the string held by k.
func (k Key) Text() (string, bool) {
	if k.kind != keyString {
		return "", false
	}
	return k.s, true
}

// String renders the key for logs. IntKey(1) and StringKey("1") render
// identically but are distinct keys.
func (k Key) String() string {
	if k.kind == keyString {
		return k.s
	}
	return strconv.FormatInt(k.n, 10)
}

// encode produces a string form that keeps int and string keys apart.
func (k Key) encode() string {
	if k.kind == keyString {
		return "s:" + k.s
	}
	return "i:" + strconv.FormatInt(k.n, 10)
}

func decodeKey(raw string) (Key, error) {
	switch {
	case strings.HasPrefix(raw, "s:"):
		return StringKey(raw[2:]), nil
	case strings.HasPrefix(raw, "i:"):
		n, err := strconv.ParseInt(raw[2:], 10, 64)
		if err != nil {
			return Key{}, fmt.Errorf("memo: malformed integer key %q", raw)
		}
		return IntKey(n), nil
	default:
		return Key{}, fmt.Errorf("memo: malformed key %q", raw)
	}
}
