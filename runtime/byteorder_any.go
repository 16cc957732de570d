//go:build !mpack_bigendian && !mpack_littleendian

package mpack

const compiledEndianness = anyEndian
