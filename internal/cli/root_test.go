package cli

import "testing"

func TestRootRegistersCommands(t *testing.T) {
	want := map[string]bool{"serve": false, "status": false, "version": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("command %q not registered", name)
		}
	}
}
