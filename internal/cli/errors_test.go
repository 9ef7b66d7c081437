package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/registry"
	"github.com/extkit-dev/extkit/internal/runtime"
)

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "sentinel hint",
			err:  fmt.Errorf("%w: ghost", registry.ErrNotInstalled),
			want: []string{"Error: extension not installed: ghost", "Hint: Run `extkit extension list`"},
		},
		{
			name: "non-interactive consent",
			err:  fmt.Errorf("%w: cannot ask", consent.ErrNonInteractive),
			want: []string{"Hint: Re-run with --yes to accept without prompting."},
		},
		{
			name: "cli error remediation",
			err:  &CLIError{Message: "bad input", Remediation: []string{"try again", "or not"}},
			want: []string{"Error: bad input\n", "Hint: try again\n", "Hint: or not\n"},
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: []string{"Error: boom\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestPrintError_PlainHasNoHint(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	if strings.Contains(buf.String(), "Hint:") {
		t.Errorf("unexpected hint:\n%s", buf.String())
	}
}

func TestPrintError_ExitErrorIsSilent(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, fmt.Errorf("running: %w", &runtime.ExitError{Code: 2}))
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{&runtime.ExitError{Code: 7}, 7},
		{fmt.Errorf("wrapped: %w", &runtime.ExitError{Code: 3}), 3},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
