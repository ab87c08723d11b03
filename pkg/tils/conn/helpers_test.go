package conn

import "os"

// pipeFDs returns a real (read, write) fd pair so Close() has something
// legitimate to close instead of poking an arbitrary integer.
func pipeFDs() (int, int, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return 0, 0, err
	}
	return int(r.Fd()), int(w.Fd()), nil
}

func closeFD(fd int) {
	os.NewFile(uintptr(fd), "").Close()
}
