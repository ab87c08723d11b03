package worker

import "golang.org/x/sys/unix"

// fdZero, fdSet and fdIsSet reimplement the FD_ZERO/FD_SET/FD_ISSET macros
// select(2) expects, operating on the same bitmap layout the kernel does.
// The word width backing unix.FdSet.Bits differs by platform (64-bit words
// on Linux, 32-bit on Darwin), so it is supplied by fdset_linux.go /
// fdset_darwin.go.

func fdZero(set *unix.FdSet) {
	for i := range set.Bits {
		set.Bits[i] = 0
	}
}

func fdSet(fd int, set *unix.FdSet) {
	set.Bits[fd/fdSetWordBits] |= 1 << uint(fd%fdSetWordBits)
}

func fdIsSet(fd int, set *unix.FdSet) bool {
	return set.Bits[fd/fdSetWordBits]&(1<<uint(fd%fdSetWordBits)) != 0
}
