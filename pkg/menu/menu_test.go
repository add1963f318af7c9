package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/wikiqa/pkg/config"
)

func init() {
	color.NoColor = true // deterministic output in tests
}

// runScript feeds a scripted stdin to a fresh menu and returns it with the
// captured output
func runScript(t *testing.T, input string) (*Menu, string) {
	t.Helper()

	settings := config.Defaults()
	out := &bytes.Buffer{}
	m := New(&settings, "test", strings.NewReader(input), out)

	err := m.Run(context.Background())
	require.NoError(t, err)
	return m, out.String()
}

func TestMenu_Exit(t *testing.T) {
	m, out := runScript(t, "6\n")

	assert.Contains(t, out, "Wiki-QA CLI")
	assert.Contains(t, out, "Goodbye!")

	// snapshot untouched
	assert.Equal(t, "Computer Science", m.Session().Domain)
	assert.Equal(t, config.StrategyHybrid, m.Session().Strategy)
	assert.Equal(t, 1000, m.Session().ArticleLimit)
	assert.True(t, m.Session().Citations)
}

func TestMenu_ExitStopsPrompting(t *testing.T) {
	_, out := runScript(t, "6\n4\n")

	// nothing after the farewell, the second line is never consumed
	assert.Equal(t, 1, strings.Count(out, "Select an option"))
	assert.NotContains(t, out, "Current Settings")
}

func TestMenu_SessionStub(t *testing.T) {
	m, out := runScript(t, "1\n6\n")

	assert.Contains(t, out, "Q&A session not yet implemented.")
	assert.Contains(t, out, "Run the ingestion pipeline first.")
	assert.Equal(t, "Computer Science", m.Session().Domain)
}

func TestMenu_DefaultChoiceIsSessionStub(t *testing.T) {
	_, out := runScript(t, "\n6\n")
	assert.Contains(t, out, "Q&A session not yet implemented.")
}

func TestMenu_ConfigureDomain(t *testing.T) {
	t.Run("set domain", func(t *testing.T) {
		m, out := runScript(t, "2\nPhysics\n6\n")

		assert.Equal(t, "Physics", m.Session().Domain)
		assert.Contains(t, out, "Current domain: Computer Science")
		assert.Contains(t, out, "Domain set to: Physics")
	})

	t.Run("blank input applies default", func(t *testing.T) {
		m, _ := runScript(t, "2\n\n6\n")
		assert.Equal(t, "Computer Science", m.Session().Domain)
	})

	t.Run("free text accepted", func(t *testing.T) {
		m, _ := runScript(t, "2\nMachine Learning\n6\n")
		assert.Equal(t, "Machine Learning", m.Session().Domain)
	})
}

func TestMenu_ConfigureStrategy(t *testing.T) {
	t.Run("set strategy", func(t *testing.T) {
		m, out := runScript(t, "3\nvector\n6\n")

		assert.Equal(t, config.StrategyVector, m.Session().Strategy)
		assert.Contains(t, out, "Current strategy: hybrid")
		assert.Contains(t, out, "Strategy set to: vector")
	})

	t.Run("invalid input re-prompted", func(t *testing.T) {
		m, out := runScript(t, "3\nquantum\ngraph\n6\n")

		assert.Equal(t, config.StrategyGraph, m.Session().Strategy)
		assert.Contains(t, out, `invalid choice "quantum"`)
	})

	t.Run("blank input applies default", func(t *testing.T) {
		m, _ := runScript(t, "3\n\n6\n")
		assert.Equal(t, config.StrategyHybrid, m.Session().Strategy)
	})
}

func TestMenu_Status(t *testing.T) {
	_, out := runScript(t, "4\n6\n")

	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Domain: Computer Science")
	assert.Contains(t, out, "Strategy: hybrid")
	assert.Contains(t, out, "Article Limit: 1000")
	assert.Contains(t, out, "Citations: Enabled")
}

func TestMenu_StatusReflectsSessionChanges(t *testing.T) {
	_, out := runScript(t, "2\nPhysics\n3\nvector\n4\n6\n")

	assert.Contains(t, out, "Domain: Physics")
	assert.Contains(t, out, "Strategy: vector")
}

func TestMenu_Help(t *testing.T) {
	_, out := runScript(t, "5\n6\n")

	assert.Contains(t, out, "Wiki-QA Help")
	assert.Contains(t, out, "Qdrant")
	assert.Contains(t, out, "Neo4j")
	assert.Contains(t, out, "vector")
	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "hybrid")
}

func TestMenu_InvalidChoiceReprompted(t *testing.T) {
	_, out := runScript(t, "9\nabc\n6\n")

	assert.Contains(t, out, `invalid choice "9"`)
	assert.Contains(t, out, `invalid choice "abc"`)
	assert.Contains(t, out, "Goodbye!")
}

func TestMenu_ClosedInputEndsLoop(t *testing.T) {
	t.Run("at the menu prompt", func(t *testing.T) {
		_, out := runScript(t, "")
		assert.Contains(t, out, "Wiki-QA CLI")
	})

	t.Run("inside a sub-prompt", func(t *testing.T) {
		m, _ := runScript(t, "2\n")
		assert.Equal(t, "Computer Science", m.Session().Domain)
	})

	t.Run("last line without newline", func(t *testing.T) {
		m, out := runScript(t, "2\nPhysics") // EOF right after the domain
		assert.Equal(t, "Physics", m.Session().Domain)
		assert.Contains(t, out, "Domain set to: Physics")
	})
}

func TestMenu_CanceledContext(t *testing.T) {
	settings := config.Defaults()
	out := &bytes.Buffer{}
	m := New(&settings, "test", strings.NewReader("4\n4\n4\n"), out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, m.Run(ctx))
	assert.NotContains(t, out.String(), "Select an option")
}

func TestMenu_SnapshotDetachedFromSettings(t *testing.T) {
	settings := config.Defaults()
	out := &bytes.Buffer{}
	m := New(&settings, "test", strings.NewReader("2\nPhysics\n6\n"), out)

	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, "Physics", m.Session().Domain)
	assert.Equal(t, "Computer Science", settings.Domain, "settings model must not change")
}
