package utils

import (
	"reflect"
	"testing"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want map[string]string
	}{
		{"command only", []string{"prepare"}, map[string]string{"command": "prepare"}},
		{"flags around command", []string{"--debug", "all", "--catalog=run.db"},
			map[string]string{"command": "all", "debug": "true", "catalog": "run.db"}},
		{"spaced value", []string{"package", "--logfile", "out.log", "--quiet"},
			map[string]string{"command": "package", "logfile": "out.log", "quiet": "true"}},
		{"flag before command is boolean", []string{"--catalog", "dedupe"},
			map[string]string{"command": "dedupe", "catalog": "true"}},
		{"no command", []string{"--debug"}, map[string]string{"debug": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseArguments(tt.argv); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseArguments(%v) = %v, want %v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestIsTrue(t *testing.T) {
	args := map[string]string{"a": "true", "b": "false", "c": ""}
	if !IsTrue(args, "a") || IsTrue(args, "b") || !IsTrue(args, "c") || IsTrue(args, "d") {
		t.Errorf("IsTrue misread %v", args)
	}
}
