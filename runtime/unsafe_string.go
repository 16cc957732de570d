package mpack

import "unsafe"

// UnsafeString returns a string that shares the same underlying
// memory as b. It must only be used in trusted decode paths where
// the backing buffer is immutable for the lifetime of the string;
// blob views handed out by an UnpackContext do not qualify once a
// refill handler has run.
func UnsafeString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

// UnsafeBytes returns the string as a byte slice. It is
// equivalent to []byte(s) and retained for symmetry.
func UnsafeBytes(s string) []byte { return []byte(s) }
