//go:build mpack_bigendian

package mpack

const compiledEndianness = bigEndian
