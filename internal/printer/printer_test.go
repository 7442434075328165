package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		p, _, errOut := newTestPrinter(t)
		err := p.Error("Test Error", "This is a test error", []string{})
		require.Error(t, err)
		assert.Equal(t, "Test Error", err.Error())
		assert.Equal(t, "Test Error\n\nThis is a test error\n", errOut.String())
	})

	t.Run("prints single suggestion plainly", func(t *testing.T) {
		p, _, errOut := newTestPrinter(t)
		err := p.Error("Test Error", "Explanation", []string{"Try this fix"})
		require.Error(t, err)
		assert.Contains(t, errOut.String(), "\nTry this fix\n")
		assert.NotContains(t, errOut.String(), "Either:")
	})

	t.Run("numbers multiple suggestions", func(t *testing.T) {
		p, out, errOut := newTestPrinter(t)
		err := p.Error("Test Error", "Explanation", []string{"First option", "Second option"})
		require.Error(t, err)
		assert.Contains(t, errOut.String(), "Either:\n  1. First option\n  2. Second option\n")
		assert.Empty(t, out.String())
	})
}

func TestErrorWithContext(t *testing.T) {
	p, _, errOut := newTestPrinter(t)
	err := p.ErrorWithContext("Store failed", "", map[string]string{
		"Namespace": "default",
		"Address":   "localhost:6379",
	}, nil)

	require.Error(t, err)
	assert.Equal(t, "Store failed", err.Error())
	assert.Equal(t, "Store failed\n\n\n  Address: localhost:6379\n  Namespace: default\n", errOut.String())
}

func TestStatusMessages(t *testing.T) {
	t.Run("success adds checkmark once", func(t *testing.T) {
		p, out, _ := newTestPrinter(t)
		p.Success("done\n")
		p.Success("✓ already marked\n")
		assert.Equal(t, "✓ done\n✓ already marked\n", out.String())
	})

	t.Run("warning adds prefix", func(t *testing.T) {
		p, out, _ := newTestPrinter(t)
		p.Warning("careful\n")
		assert.Equal(t, "⚠️  careful\n", out.String())
	})

	t.Run("step and detail", func(t *testing.T) {
		p, out, _ := newTestPrinter(t)
		p.Step("Generating length %d\n", 4)
		p.Detail("total", "12")
		assert.Equal(t, "→ Generating length 4\n  total: 12\n", out.String())
	})

	t.Run("info is plain", func(t *testing.T) {
		p, out, errOut := newTestPrinter(t)
		p.Info("%d specs\n", 3)
		assert.Equal(t, "3 specs\n", out.String())
		assert.Empty(t, errOut.String())
	})
}
