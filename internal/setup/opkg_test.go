package setup

import "testing"

func TestInstalledInList(t *testing.T) {
	list := `dropbear - 2022.82-6
luci-app-tailscale - 1.2.1
tailscale - 1.58.2-1
tailscaled-compat - 0.1
uci - 2023-08-10-5781664d-1
`

	tests := []struct {
		pkg  string
		want bool
	}{
		{"tailscale", true},
		{"uci", true},
		{"tailscaled", false},
		{"tail", false},
		{"luci-app-tailscale", true},
		{"dnsmasq", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			if got := installedInList(list, tt.pkg); got != tt.want {
				t.Errorf("installedInList(%q) = %v, want %v", tt.pkg, got, tt.want)
			}
		})
	}
}

func TestInstalledInList_EmptyOutput(t *testing.T) {
	if installedInList("", "tailscale") {
		t.Error("installedInList on empty output = true, want false")
	}
}
