//go:build linux
// +build linux

package worker

// fdSetWordBits is the bit width of unix.FdSet.Bits' element type on Linux.
const fdSetWordBits = 64
