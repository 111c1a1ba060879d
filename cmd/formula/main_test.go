package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
	"github.com/amaury-medina-tass/spd-frontend-sub001/runtime/validation"
)

const testCatalog = "testdata/catalog.yaml"

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	t.Setenv(envCatalog, "")
	t.Setenv(envDebug, "")
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, stdin, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestParse_Text(t *testing.T) {
	res := runCLI(t, nil, "-c", testCatalog, "parse", "[cobertura] + [cobertra] #")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "KIND")
	assert.Contains(t, res.stdout, "Cobertura")
	assert.Contains(t, res.stdout, `unresolved variable "cobertra" at step 2 (did you mean cobertura?)`)
	assert.Contains(t, res.stdout, `skipped "#" at column`)
}

func TestParse_JSON(t *testing.T) {
	res := runCLI(t, nil, "-c", testCatalog, "--format", "json", "parse", "[poblacion] * [MI:mi1]")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var rep struct {
		Formula    string            `json:"formula"`
		Steps      []json.RawMessage `json:"steps"`
		Unresolved []any             `json:"unresolved"`
		Skipped    []any             `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rep))
	assert.Equal(t, "[poblacion] * [MI:mi1]", rep.Formula)
	assert.Len(t, rep.Steps, 3)
	assert.Empty(t, rep.Unresolved)
	assert.Empty(t, rep.Skipped)
}

func TestValidate(t *testing.T) {
	res := runCLI(t, nil, "-c", testCatalog, "validate", "[cobertura] + 2")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Fórmula válida (3 elementos)\n", res.stdout)

	res = runCLI(t, nil, "-c", testCatalog, "validate", "[cobertura] +")
	assert.Equal(t, ExitInvalidFormula, res.code)
	assert.Contains(t, res.stdout, validation.MsgTrailingOperator)
	assert.Contains(t, res.stderr, "formula cannot be saved")
}

func TestValidate_JSON(t *testing.T) {
	res := runCLI(t, nil, "--format", "json", "validate", ") 1")
	require.Equal(t, ExitInvalidFormula, res.code)

	var out struct {
		Validation validation.Result        `json:"validation"`
		Status     validation.StatusMessage `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.False(t, out.Validation.IsValid)
	assert.Equal(t, validation.MessageError, out.Status.Type)
	assert.Equal(t, validation.MsgUnopenedClose, out.Status.Message)
}

func TestFormulaFromFileAndStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("MAX( 1 , 2 )\n"), 0o644))

	res := runCLI(t, nil, "-f", path, "ast")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "(MAX 1 2)\n", res.stdout)

	res = runCLI(t, strings.NewReader("1 + 2 * 3"), "ast")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "(+ 1 (* 2 3))\n", res.stdout)

	res = runCLI(t, nil, "-f", filepath.Join(t.TempDir(), "missing.txt"), "ast")
	assert.Equal(t, ExitIOError, res.code)
}

func TestNoFormulaGiven(t *testing.T) {
	res := runCLI(t, nil, "validate")

	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "Error: no formula given")
	assert.Contains(t, res.stderr, "Hint: ")
}

func TestAST_Errors(t *testing.T) {
	res := runCLI(t, nil, "ast", "1 +")

	assert.Equal(t, ExitInvalidFormula, res.code)
	assert.Contains(t, res.stdout, "error(")
}

func TestASTRoundTripThroughSteps(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatCBOR} {
		t.Run(format, func(t *testing.T) {
			res := runCLI(t, nil, "-c", testCatalog, "--format", format, "ast", "( [cobertura] + 1 ) * 2")
			require.Equal(t, ExitSuccess, res.code, res.stderr)

			path := filepath.Join(t.TempDir(), "tree")
			require.NoError(t, os.WriteFile(path, []byte(res.stdout), 0o644))

			res = runCLI(t, nil, "-c", testCatalog, "steps", path)
			require.Equal(t, ExitSuccess, res.code, res.stderr)
			assert.Equal(t, "( [cobertura] + 1 ) * 2\n", res.stdout)
		})
	}
}

func TestSteps_FromStdin(t *testing.T) {
	tree := `{"kind":"binary","op":"-","left":{"kind":"const","value":10},"right":{"kind":"ref","value":"poblacion"}}`
	res := runCLI(t, strings.NewReader(tree), "-c", testCatalog, "steps")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "10 - [poblacion]\n", res.stdout)

	res = runCLI(t, strings.NewReader(`{"kind":"nope"}`), "steps")
	assert.Equal(t, ExitInvalidFormula, res.code)
}

func TestFingerprint(t *testing.T) {
	a := runCLI(t, nil, "fingerprint", "1+2")
	b := runCLI(t, nil, "fingerprint", "1 + 2")
	c := runCLI(t, nil, "fingerprint", "2 + 1")

	require.Equal(t, ExitSuccess, a.code, a.stderr)
	assert.True(t, strings.HasPrefix(a.stdout, "blake2b:"))
	assert.Equal(t, a.stdout, b.stdout)
	assert.NotEqual(t, a.stdout, c.stdout)
}

func TestSave(t *testing.T) {
	res := runCLI(t, nil, "-c", testCatalog, "--format", "json", "save", "[cobertura]*2")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var saved struct {
		Formula     string         `json:"formula"`
		AST         map[string]any `json:"ast"`
		Fingerprint string         `json:"fingerprint"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &saved))
	assert.Equal(t, "[cobertura] * 2", saved.Formula)
	assert.Equal(t, "binary", saved.AST["kind"])
	assert.True(t, strings.HasPrefix(saved.Fingerprint, "blake2b:"))

	res = runCLI(t, nil, "save", "SUM( )")
	assert.Equal(t, ExitInvalidFormula, res.code)
	assert.Contains(t, res.stderr, "formula cannot be saved")
}

func TestUnsupportedFormat(t *testing.T) {
	res := runCLI(t, nil, "--format", "cbor", "parse", "1")

	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, `unsupported output format "cbor"`)
}

func TestCatalogErrors(t *testing.T) {
	res := runCLI(t, nil, "-c", "testdata/missing.yaml", "validate", "1")
	assert.Equal(t, ExitCatalogError, res.code)

	res = runCLI(t, nil, "-c", "testdata/cyclic.yaml", "check")
	assert.Equal(t, ExitCatalogError, res.code)
	assert.Contains(t, res.stderr, "Referencia circular")
	assert.Contains(t, res.stderr, "Cycle: ")
}

func TestCheck(t *testing.T) {
	res := runCLI(t, nil, "-c", testCatalog, "check")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "catalog ok: 3 variables, 0 variable goals, 1 indicator goals\n", res.stdout)
}

func TestCatalogFromStdin(t *testing.T) {
	data, err := os.ReadFile(testCatalog)
	require.NoError(t, err)

	res := runCLI(t, bytes.NewReader(data), "-c", "-", "validate", "[atendidos] / 2")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Fórmula válida (3 elementos)\n", res.stdout)

	res = runCLI(t, bytes.NewReader(data), "-c", "-", "-f", "-", "validate")
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "cannot both be read from stdin")
}

func TestDebugLogging(t *testing.T) {
	res := runCLI(t, nil, "--debug", "-c", testCatalog, "parse", "[nada]")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, `msg="catalog loaded"`)
	assert.Contains(t, res.stderr, `msg="unresolved reference"`)
	assert.NotContains(t, res.stderr, "level=")
	assert.NotContains(t, res.stderr, "time=")

	quiet := runCLI(t, nil, "-c", testCatalog, "parse", "[nada]")
	assert.Empty(t, quiet.stderr)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"catalog schema", ferrors.New(ferrors.ErrCatalogSchema, "bad"), ExitCatalogError},
		{"recursive", ferrors.New(ferrors.ErrRecursive, "cycle"), ExitCatalogError},
		{"not savable", ferrors.NewNotSavableError("x"), ExitInvalidFormula},
		{"read", ferrors.Wrap(ferrors.ErrFormulaRead, "read", errors.New("eof")), ExitIOError},
		{"watcher", ferrors.New(ferrors.ErrWatcherFailure, "w"), ExitIOError},
		{"wrapped decode", notSavable(ferrors.New(ferrors.ErrASTDecode, "d")), ExitInvalidFormula},
		{"plain", errors.New("unknown flag"), ExitInvalidArguments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestFormatError(t *testing.T) {
	var b bytes.Buffer
	FormatError(&b, &CLIError{Message: "boom", Details: "line 1", Hint: "try again"}, false)
	assert.Equal(t, "Error: boom\n\nline 1\nHint: try again\n", b.String())

	b.Reset()
	FormatError(&b, errors.New("plain"), true)
	assert.Equal(t, ColorRed+"Error: "+ColorReset+"plain\n", b.String())

	b.Reset()
	FormatError(&b, nil, false)
	assert.Empty(t, b.String())
}

func TestHasPipedInput(t *testing.T) {
	assert.True(t, hasPipedInput(strings.NewReader("x")))
	assert.False(t, hasPipedInput(nil))

	f, err := os.CreateTemp(t.TempDir(), "in")
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, hasPipedInput(f))
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestWatch(t *testing.T) {
	t.Setenv(envCatalog, "")
	t.Setenv("NO_COLOR", "1")

	path := filepath.Join(t.TempDir(), "meta.formula")
	require.NoError(t, os.WriteFile(path, []byte("[cobertura]"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-c", testCatalog, "watch", path}, nil, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "meta.formula: Fórmula válida (1 elementos)")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("[cobertura] *"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "meta.formula: "+validation.MsgTrailingOperator)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitSuccess, code, stderr.String())
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_RequiresFile(t *testing.T) {
	res := runCLI(t, nil, "watch")

	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "watch needs a formula file")
}
