//go:build darwin
// +build darwin

package worker

// fdSetWordBits is the bit width of unix.FdSet.Bits' element type on Darwin.
const fdSetWordBits = 32
