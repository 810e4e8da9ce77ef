// Package platform detects the hardware the process is running on.
package platform

import (
	"os"
	"strings"
)

const cpuinfoPath = "/proc/cpuinfo"

// IsRaspberryPi reports whether the process is running on Raspberry Pi
// hardware, based on /proc/cpuinfo. Any read failure means "no".
func IsRaspberryPi() bool {
	return isRaspberryPiFile(cpuinfoPath)
}

func isRaspberryPiFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	info := string(data)
	return strings.Contains(info, "Raspberry Pi") || strings.Contains(info, "BCM")
}
