package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{"empty", "", []string{"json", "dot", "svg", "png", "pdf"}},
		{"prefix", "p", []string{"png", "pdf"}},
		{"after comma", "svg,", []string{"svg,json", "svg,dot", "svg,png", "svg,pdf"}},
		{"partial after comma", "svg,p", []string{"svg,png", "svg,pdf"}},
		{"skips chosen", "png,svg,p", []string{"png,svg,pdf"}},
		{"no match", "gif", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := completeFormats(nil, nil, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.toComplete, got, tt.want)
			}
			if directive&cobra.ShellCompDirectiveNoFileComp == 0 {
				t.Errorf("directive = %v, want NoFileComp", directive)
			}
		})
	}
}

func TestCompleteJSONInput(t *testing.T) {
	got, directive := completeJSONInput(nil, nil, "")
	if !slices.Equal(got, []string{"json"}) || directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("first arg = %v, %v", got, directive)
	}
	if got, directive := completeJSONInput(nil, []string{"in.json"}, ""); got != nil || directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second arg = %v, %v", got, directive)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, newTestCLI(t), "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "graphweave") {
				t.Errorf("completion %s output does not mention graphweave", shell)
			}
		})
	}

	if _, err := runCLI(t, newTestCLI(t), "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected error")
	}
}

func TestFormatFlagCompletion(t *testing.T) {
	for _, command := range []string{"render", "visualize"} {
		t.Run(command, func(t *testing.T) {
			out, err := runCLI(t, newTestCLI(t), cobra.ShellCompRequestCmd, command, "in.json", "--format", "svg,p")
			if err != nil {
				t.Fatalf("%s: %v", cobra.ShellCompRequestCmd, err)
			}
			for _, want := range []string{"svg,png", "svg,pdf"} {
				if !strings.Contains(out, want) {
					t.Errorf("completions missing %q:\n%s", want, out)
				}
			}
			if strings.Contains(out, "svg,svg") {
				t.Errorf("completions repeat a chosen format:\n%s", out)
			}
		})
	}
}
