// Package menu implements the interactive configuration shell. It renders a
// numbered menu, reads validated choices from the injected input and
// dispatches to handlers operating on an in-memory snapshot of the settings.
// Handlers never write the snapshot back to the settings file; changes live
// for the session only.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"

	"github.com/umputun/wikiqa/pkg/config"
)

// Snapshot is the working copy of the fields the shell lets the operator
// change or inspect. It is detached from the settings model on purpose.
type Snapshot struct {
	Domain       string
	ArticleLimit int
	Strategy     string
	Citations    bool
}

// Menu drives the interactive loop over the injected reader and writer
type Menu struct {
	in      *bufio.Reader
	out     io.Writer
	version string

	session Snapshot
}

var menuChoices = []string{"1", "2", "3", "4", "5", "6"}

var strategyChoices = []string{config.StrategyVector, config.StrategyGraph, config.StrategyHybrid}

// New initializes a menu with a working snapshot copied from settings
func New(settings *config.Settings, version string, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		in:      bufio.NewReader(in),
		out:     out,
		version: version,
		session: Snapshot{
			Domain:       settings.Domain,
			ArticleLimit: settings.ArticleLimit,
			Strategy:     settings.QnAStrategy,
			Citations:    settings.EnableCitations,
		},
	}
}

// Run displays the banner and processes menu choices until the operator exits
// or the input is closed. Returns nil on a clean exit.
func (m *Menu) Run(ctx context.Context) error {
	m.printBanner()

	for {
		if err := ctx.Err(); err != nil {
			log.Printf("[INFO] menu loop canceled")
			return nil
		}

		m.printMenu()

		choice, err := m.promptChoice("Enter your choice", menuChoices, "1")
		if err != nil {
			return m.inputClosed(err)
		}

		switch choice {
		case "1":
			m.startSession()
		case "2":
			if err := m.configureDomain(); err != nil {
				return m.inputClosed(err)
			}
		case "3":
			if err := m.configureStrategy(); err != nil {
				return m.inputClosed(err)
			}
		case "4":
			m.showStatus()
		case "5":
			m.showHelp()
		case "6":
			color.New(color.FgGreen, color.Bold).Fprintln(m.out, "\nGoodbye!")
			log.Printf("[INFO] exit selected, leaving menu loop")
			return nil
		}
	}
}

// Session returns the current working snapshot
func (m *Menu) Session() Snapshot { return m.session }

func (m *Menu) startSession() {
	yellow := color.New(color.FgYellow)
	yellow.Fprintln(m.out, "\nQ&A session not yet implemented.")
	yellow.Fprintln(m.out, "Run the ingestion pipeline first.")
	fmt.Fprintln(m.out)
}

func (m *Menu) configureDomain() error {
	fmt.Fprintf(m.out, "\nCurrent domain: %s\n", m.session.Domain)

	domain, err := m.promptString("Enter domain (e.g., 'Machine Learning', 'Physics')", "Computer Science")
	if err != nil {
		return err
	}

	m.session.Domain = domain
	color.New(color.FgGreen).Fprintf(m.out, "\nDomain set to: %s\n", domain)
	log.Printf("[DEBUG] domain changed to %q", domain)
	return nil
}

func (m *Menu) configureStrategy() error {
	fmt.Fprintf(m.out, "\nCurrent strategy: %s\n", m.session.Strategy)

	strategy, err := m.promptChoice("Select strategy", strategyChoices, config.StrategyHybrid)
	if err != nil {
		return err
	}

	m.session.Strategy = strategy
	color.New(color.FgGreen).Fprintf(m.out, "\nStrategy set to: %s\n", strategy)
	log.Printf("[DEBUG] strategy changed to %s", strategy)
	return nil
}

func (m *Menu) showStatus() {
	citations := "Disabled"
	if m.session.Citations {
		citations = "Enabled"
	}

	color.New(color.Bold).Fprintln(m.out, "\nCurrent Settings")
	fmt.Fprintf(m.out, "\n  Domain: %s\n", m.session.Domain)
	fmt.Fprintf(m.out, "  Strategy: %s\n", m.session.Strategy)
	fmt.Fprintf(m.out, "  Article Limit: %d\n", m.session.ArticleLimit)
	fmt.Fprintf(m.out, "  Citations: %s\n", citations)
}

func (m *Menu) showHelp() {
	color.New(color.Bold).Fprintln(m.out, "\nWiki-QA Help")
	fmt.Fprint(m.out, `
This application enables intelligent Q&A over Wikipedia articles
by combining vector search (Qdrant) and graph traversal (Neo4j).

Commands:
  1 - Start an interactive Q&A session
  2 - Set the domain/topic (default: Computer Science)
  3 - Change search strategy (vector, graph, hybrid)
  4 - View current configuration
  5 - Show this help message
  6 - Exit the application

Search Strategies:
  vector  - Use semantic similarity search only
  graph   - Use knowledge graph traversal only
  hybrid  - Combine both for best results (recommended)

Note:
  Run the ingestion pipeline first to index articles.
`)
}

func (m *Menu) printBanner() {
	banner := `
╔══════════════════════════════════════════════════╗
║          Wiki-QA CLI %-7s                     ║
║    Intelligent Document Q&A System               ║
╚══════════════════════════════════════════════════╝
`
	color.New(color.FgCyan, color.Bold).Fprintf(m.out, banner, m.version)
}

func (m *Menu) printMenu() {
	fmt.Fprintf(m.out, `
Select an option:

  [1] Start Q&A Session (%s)
  [2] Configure Domain
  [3] Change Q&A Strategy
  [4] View Status
  [5] Help
  [6] Exit

`, m.session.Domain)
}

// promptString reads one line, applying def on blank input
func (m *Menu) promptString(label, def string) (string, error) {
	fmt.Fprintf(m.out, "%s [%s]: ", label, def)

	line, err := m.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// promptChoice reads one line constrained to choices, re-prompting until the
// input is valid. Blank input applies def.
func (m *Menu) promptChoice(label string, choices []string, def string) (string, error) {
	for {
		fmt.Fprintf(m.out, "%s (%s) [%s]: ", label, strings.Join(choices, "/"), def)

		line, err := m.readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			return def, nil
		}
		for _, c := range choices {
			if line == c {
				return line, nil
			}
		}
		color.New(color.FgRed).Fprintf(m.out, "invalid choice %q, try again\n", line)
	}
}

func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// inputClosed maps a closed stdin to a clean exit, anything else propagates
func (m *Menu) inputClosed(err error) error {
	if errors.Is(err, io.EOF) {
		log.Printf("[INFO] input closed, leaving menu loop")
		return nil
	}
	return fmt.Errorf("read input: %w", err)
}
