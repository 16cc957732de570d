//go:build mpack_littleendian

package mpack

const compiledEndianness = littleEndian
