package infrastructure

import "testing"

func TestRequiresElevationPlatformTagging(t *testing.T) {
	evaluator := NewPlatformEvaluator(nil)

	cases := []struct {
		command  string
		platform string
		want     bool
	}{
		{"sudo apt-get update", "linux", true},
		{"sudo apt-get update", "windows", false},
		{"doas pkg_add curl", "linux", true},
		{"systemctl restart nginx", "linux", true},
		{"systemctl restart nginx", "windows", false},
		{"Stop-Service -Name WinRM", "windows", true},
		{"Stop-Service -Name WinRM", "linux", false},
		{"net user admin P@ssw0rd /add", "windows", true},
		{"netsh advfirewall set allprofiles state off", "windows", true},
		{"Set-ExecutionPolicy Bypass", "windows", true},
		{"reg add HKLM\\Software\\Test", "windows", true},
		{"useradd deploy", "linux", true},
		{"mkfs.ext4 /dev/sdb1", "darwin", true},
		{"ls -la", "linux", false},
		{"Get-Date", "windows", false},
		{"echo sudoku", "linux", false},
	}

	for _, tc := range cases {
		if got := evaluator.RequiresElevation(tc.command, tc.platform); got != tc.want {
			t.Errorf("RequiresElevation(%q, %s) = %v, want %v", tc.command, tc.platform, got, tc.want)
		}
	}
}
