package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestValidateScenes(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	partial := filepath.Join(dir, "partial.json")
	if err := os.WriteFile(partial, []byte(`{"objects":[{"type":"circle","radius":-4}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{name: "sample", args: []string{"cradle.json"}, want: "cradle.json: ok"},
		{name: "malformed", args: []string{bad}, wantErr: true, want: "bad.json"},
		{name: "defaults", args: []string{partial}, want: "replaced by defaults"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)
			err := validateScenes(cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateScenes error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Fatalf("output %q missing %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunSceneHeadless(t *testing.T) {
	width, height, seed, ticks = 1000, 800, 7, 30

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runScene(cmd, []string{"cradle.json"}); err != nil {
		t.Fatalf("runScene: %v", err)
	}
	for _, want := range []string{"ticks", "30", "primary", "boundary"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("stats %q missing %q", out.String(), want)
		}
	}
}

func TestProbeUnknownRole(t *testing.T) {
	plotRole = "nope"
	defer func() { plotRole = "all" }()
	if err := probeScene(&cobra.Command{}, []string{"cradle.json"}); err == nil {
		t.Fatalf("expected unknown role error")
	}
}
