// Package history persists run templates and command-history entries as
// TOML array-of-tables documents, grounded on the original CSettings /
// CLIRun pair (see original_source/target/TOOLS/FileCleaner/cli/CLIRun.*
// and configuration/Settings.*). Unlike the project's KDL settings
// document, these are append-oriented record lists, so TOML is used
// instead per §4.11.
package history

import (
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	fcerrors "github.com/standardbeagle/filecleaner/internal/errors"
)

// RunTemplate is a named, reusable invocation: a description and the
// argv string to re-tokenize and dispatch through the CLI engine.
type RunTemplate struct {
	Name        string    `toml:"name"`
	Description string    `toml:"description"`
	Command     string    `toml:"command"`
	Created     time.Time `toml:"created"`
	LastRun     time.Time `toml:"last_run,omitempty"`
}

// Entry is one completed invocation recorded to history.toml.
type Entry struct {
	Timestamp time.Time `toml:"timestamp"`
	Command   string    `toml:"command"`
	ExitCode  int       `toml:"exit_code"`
}

// Document is the on-disk shape of both run-templates.toml and
// history.toml; a single struct covers both since a deployment may keep
// them in one file.
type Document struct {
	RunTemplates []RunTemplate `toml:"run_template"`
	History      []Entry       `toml:"history"`
}

// Load reads path and parses it as a Document. A missing file is not an
// error: it returns an empty Document, matching history --create's
// idempotent semantics.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return nil, fcerrors.NewIoError("read", path, err)
	}
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fcerrors.NewBadFormatError(path, err.Error())
	}
	return &doc, nil
}

// Save writes doc to path as TOML, overwriting any existing content.
func Save(path string, doc *Document) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fcerrors.NewBadFormatError(path, err.Error())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fcerrors.NewIoError("write", path, err)
	}
	return nil
}

// Create writes an empty Document to path if it does not already exist.
// Idempotent: an existing file is left untouched and no error is
// returned.
func Create(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(path, &Document{})
}

// Append records one completed invocation in memory; call Save to
// persist the document.
func (d *Document) Append(entry Entry) {
	d.History = append(d.History, entry)
}

// NewestFirst returns History sorted newest-first, leaving d unmodified.
func (d *Document) NewestFirst() []Entry {
	out := make([]Entry, len(d.History))
	copy(out, d.History)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// Find returns the named run template, or nil if none matches.
func (d *Document) Find(name string) *RunTemplate {
	for i := range d.RunTemplates {
		if d.RunTemplates[i].Name == name {
			return &d.RunTemplates[i]
		}
	}
	return nil
}

// Add appends a new run template.
func (d *Document) Add(tpl RunTemplate) {
	d.RunTemplates = append(d.RunTemplates, tpl)
}

// TouchLastRun stamps the named template's LastRun field, if present.
func (d *Document) TouchLastRun(name string, when time.Time) {
	if tpl := d.Find(name); tpl != nil {
		tpl.LastRun = when
	}
}
