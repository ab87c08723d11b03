//go:build !linux && !darwin
// +build !linux,!darwin

package tuning

// applyPlatformOptions is a no-op on platforms without specific optimizations.
func applyPlatformOptions(fd int, cfg *Config) {
}

// applyListenerOptions is a no-op on platforms without specific optimizations.
func applyListenerOptions(fd int, cfg *Config) error {
	return nil
}

// SetQuickAck is a no-op on platforms without TCP_QUICKACK.
func SetQuickAck(fd int) error {
	return nil
}
