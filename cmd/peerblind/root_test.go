package main

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	want := map[string]bool{
		"roster":        false,
		"human-reviews": false,
		"ai-reviews":    false,
		"key":           false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Student", "Proposal"},
		[][]string{{"S01", "P01"}, {"S02"}},
	)
	if out == "" {
		t.Fatal("empty table output")
	}
}
