package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `
planner_configs:
  RRTConnectDefault:
    type: geometric::RRTConnect
    range: 0.5
  RRTWide:
    type: geometric.RRT
    range: 1.5
    goal_bias: 0.1
groups:
  arm:
    default_planner_config: RRTConnectDefault
    planner_configs: [RRTConnectDefault, RRTWide]
    projection_evaluator: joints(shoulder,elbow)
    longest_valid_segment_fraction: 0.005
    max_velocity: 2.0
    max_acceleration: 4.0
  gripper:
    default_planner_config: RRTWide
`

func TestParseAndFlatten(t *testing.T) {
	f, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.ConfigNames(); len(got) != 2 || got[0] != "RRTConnectDefault" {
		t.Errorf("config names = %v", got)
	}

	cfg, err := f.ContextConfig("arm", "")
	if err != nil {
		t.Fatalf("ContextConfig: %v", err)
	}
	want := map[string]string{
		"type":                           "geometric::RRTConnect",
		"range":                          "0.5",
		"projection_evaluator":           "joints(shoulder,elbow)",
		"longest_valid_segment_fraction": "0.005",
		"max_velocity":                   "2",
		"max_acceleration":               "4",
	}
	for k, v := range want {
		if cfg[k] != v {
			t.Errorf("cfg[%q] = %q, want %q", k, cfg[k], v)
		}
	}

	// Explicit selection overrides the group default.
	cfg, err = f.ContextConfig("arm", "RRTWide")
	if err != nil {
		t.Fatal(err)
	}
	if cfg["type"] != "geometric.RRT" || cfg["goal_bias"] != "0.1" {
		t.Errorf("selected config = %v", cfg)
	}

	if _, err := f.ContextConfig("arm", "NoSuch"); err == nil {
		t.Error("unknown planner config accepted")
	}
	if _, err := f.ContextConfig("torso", ""); err == nil {
		t.Error("unknown group accepted")
	}
}

func TestValidateRejectsBadReferences(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing type",
			yaml: "planner_configs:\n  Bad:\n    range: 1\n",
			want: "missing type",
		},
		{
			name: "unknown default",
			yaml: "groups:\n  arm:\n    default_planner_config: Ghost\n",
			want: "unknown default planner config",
		},
		{
			name: "unknown listed config",
			yaml: "groups:\n  arm:\n    planner_configs: [Ghost]\n",
			want: "unknown planner config",
		},
		{
			name: "bad fraction",
			yaml: "groups:\n  arm:\n    longest_valid_segment_fraction: 1.5\n",
			want: "longest_valid_segment_fraction",
		},
		{
			name: "bad velocity",
			yaml: "groups:\n  arm:\n    max_velocity: -1\n",
			want: "max_velocity",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestLoadChecksExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planning.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("non-YAML extension accepted")
	}

	good := filepath.Join(dir, "planning.yaml")
	if err := os.WriteFile(good, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(good)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Groups) != 2 {
		t.Errorf("groups = %d, want 2", len(f.Groups))
	}
}
