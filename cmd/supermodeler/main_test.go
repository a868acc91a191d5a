package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersYAML = `
models:
  - name: Customer
    properties: [id, name]
  - name: Order
    methods: [total]
    properties:
      - name: number
        readOnly: true
      - name: customer
        type: Customer
      - title
      - name: label
        get: Label
maps:
  - source: RawOrder
    target: Order
    rules:
      number: order_no
      customer.id: customer_id
      title: {func: MakeLabel}
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "decl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestCheck_ValidFile(t *testing.T) {
	out, _, err := execute("check", writeTemp(t, ordersYAML))
	require.NoError(t, err)

	assert.Contains(t, out, "info: [funcs_unresolved]")
	assert.Contains(t, out, "2 model(s), 1 map(s): 0 error(s), 0 warning(s)")
}

func TestCheck_ReportsErrors(t *testing.T) {
	path := writeTemp(t, "models:\n  - name: A\n    properties: [name]\nmaps:\n  - source: X\n    target: A\n    rules:\n      nam: n\n")

	out, _, err := execute("check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, out, "unknown_target_field")
	assert.Contains(t, out, "did you mean name?")
}

func TestCheck_StrictTreatsWarningsAsErrors(t *testing.T) {
	path := writeTemp(t, "models:\n  - name: A\n    properties:\n      - name: b\n        type: Missing\n")

	_, _, err := execute("check", path)
	require.NoError(t, err)

	_, _, err = execute("check", path, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 warning(s)")
}

func TestCheck_JSONFormat(t *testing.T) {
	path := writeTemp(t, "models:\n  - name: A\n    properties: [a, a]\n")

	out, _, err := execute("check", path, "--format", "json")
	require.Error(t, err)

	var result CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, path, result.File)
	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.Models)

	var codes []string
	for _, d := range result.Diagnostics {
		codes = append(codes, d.Code)
	}

	assert.Contains(t, codes, "duplicate_property")
}

func TestCheck_Errors(t *testing.T) {
	_, _, err := execute("check", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read declaration file")

	_, _, err = execute("check", writeTemp(t, ordersYAML), "--format", "xml")
	assert.ErrorContains(t, err, `unsupported format "xml"`)

	_, _, err = execute("check")
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	out, logs, err := execute("explain", "-v", writeTemp(t, ordersYAML))
	require.NoError(t, err)

	assert.Contains(t, out, "model Customer\n  id\n  name\n")
	assert.Contains(t, out, "  number [read-only]\n")
	assert.Contains(t, out, "  customer [type=Customer]\n")
	assert.Contains(t, out, "  methods: total\n")
	assert.Contains(t, out, "map RawOrder -> Order\n")
	assert.Contains(t, out, "RuleCopy      number <- order_no\n")
	assert.Contains(t, out, "RulePathCopy  customer.id <- customer_id\n")
	assert.Contains(t, out, "RuleCompute   title <- func\n")

	assert.Contains(t, logs, "model defined")
}

func TestExplain_RejectsInvalidFile(t *testing.T) {
	_, _, err := execute("explain", writeTemp(t, "models:\n  - name: A\n    properties: [a.b]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dotted_property_name")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestWatch_RechecksOnChange(t *testing.T) {
	path := writeTemp(t, ordersYAML)

	var out, logs syncBuffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{"watch", path, "--debounce", "20ms"})
	cmd.SetOut(&out)
	cmd.SetErr(&logs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "0 error(s)")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("models:\n  - name: A\n    properties: [a, a]\n"), 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "duplicate_property")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
