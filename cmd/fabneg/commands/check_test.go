package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerfab/layerfab-go/pkg/log"
)

func TestRunCheck_Accepted(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "caps: [MSG, SEND]\n")

	code, stdout, _ := run(RunCheck, "--provider", "tcp", hints)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ACCEPTED by tcp info 0")
}

func TestRunCheck_SecondInfoAccepts(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "domain:\n  name: lo\n")

	code, stdout, _ := run(RunCheck, "--provider", "tcp", hints)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ACCEPTED by tcp info 1")
}

func TestRunCheck_Rejected(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "caps: [TAGGED]\n")

	code, stdout, _ := run(RunCheck, "--provider", "tcp", hints)

	assert.Equal(t, ExitMismatch, code)
	assert.Contains(t, stdout, "REJECTED by tcp")
	assert.Contains(t, stdout, "info caps not supported")
}

func TestRunCheck_LayeredNames(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "fabric:\n  name: rxm_verbs_IB-1234\n")

	code, _, _ := run(RunCheck, "--provider", "rxm", hints)
	assert.Equal(t, ExitMismatch, code, "full names differ in default mode")

	code, stdout, _ := run(RunCheck, "--provider", "rxm", "--layered", hints)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "ACCEPTED by rxm")
}

func TestRunCheck_LegacyOpFlags(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "tx:\n  op_flags: [FENCE]\n")

	code, _, _ := run(RunCheck, "--provider", "tcp", hints)
	assert.Equal(t, ExitMismatch, code)

	code, _, _ = run(RunCheck, "--provider", "tcp", "--legacy-op-flags", hints)
	assert.Equal(t, ExitSuccess, code)
}

func TestRunCheck_DiagFile(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "caps: [ATOMIC]\n")
	diag := filepath.Join(t.TempDir(), "diag.cbor")

	code, _, _ := run(RunCheck, "--provider", "verbs", "--diag-file", diag, hints)
	require.Equal(t, ExitMismatch, code)

	r, err := log.NewReader(diag)
	require.NoError(t, err)
	defer r.Close()

	event, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "verbs", event.Provider)
	assert.NotEmpty(t, event.NegotiationID)
	require.NotNil(t, event.Mismatch)
	assert.Equal(t, "caps", event.Mismatch.Field)
}

func TestRunCheck_Errors(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "caps: [MSG]\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no provider", []string{hints}, "--provider is required"},
		{"no hints", []string{"--provider", "tcp"}, "hints file required"},
		{"unknown provider", []string{"--provider", "nosuch", hints}, "not found"},
		{"missing hints", []string{"--provider", "tcp", "missing.yaml"}, "missing.yaml"},
		{"bad flag", []string{"--bogus"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(RunCheck, tt.args...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRunCheck_BadHints(t *testing.T) {
	hints := writeFile(t, "hints.yaml", "caps: [NOT_A_CAP]\n")

	code, _, _ := run(RunCheck, "--provider", "tcp", hints)
	assert.Equal(t, ExitCommandError, code)
}
