package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCPUInfo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpuinfo")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing cpuinfo fixture: %v", err)
	}
	return path
}

func TestIsRaspberryPiFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name: "pi 4 model string",
			content: "processor\t: 0\nmodel name\t: ARMv7 Processor rev 3 (v7l)\n" +
				"Hardware\t: BCM2711\nModel\t\t: Raspberry Pi 4 Model B Rev 1.4\n",
			want: true,
		},
		{
			name:    "bcm hardware only",
			content: "Hardware\t: BCM2835\nRevision\t: a02082\n",
			want:    true,
		},
		{
			name: "x86 workstation",
			content: "processor\t: 0\nvendor_id\t: GenuineIntel\n" +
				"model name\t: Intel(R) Core(TM) i7\n",
			want: false,
		},
		{
			name:    "empty file",
			content: "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCPUInfo(t, tt.content)
			if got := isRaspberryPiFile(path); got != tt.want {
				t.Errorf("isRaspberryPiFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRaspberryPiFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")
	if isRaspberryPiFile(path) {
		t.Error("isRaspberryPiFile() = true for missing file, want false")
	}
}
