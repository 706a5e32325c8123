// Package model defines the flat records exchanged with extractors and the
// document format analyses are persisted in.
package model

// FunctionRecord is one function definition as reported by an extractor.
// Location and Body use the range string form "<file>@<l>:<c>::<l>:<c>".
type FunctionRecord struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Body       string `json:"body"`
	ReturnType string `json:"return-type,omitempty"`
	Global     bool   `json:"global,omitempty"`
	Pure       bool   `json:"pure,omitempty"`
}

// StatementRecord is one statement as reported by an extractor. Every set
// field may be absent.
type StatementRecord struct {
	Kind      string `json:"kind"`
	Content   string `json:"content,omitempty"`
	Canonical string `json:"canonical"`
	Location  string `json:"location"`

	// Source is the JVM backend's spelling of Content.
	Source string `json:"source,omitempty"`

	Reads          []string `json:"reads,omitempty"`
	Writes         []string `json:"writes,omitempty"`
	Visible        []string `json:"visible,omitempty"`
	Decls          []string `json:"decls,omitempty"`
	LiveBefore     []string `json:"live_before,omitempty"`
	LiveAfter      []string `json:"live_after,omitempty"`
	RequiresSyntax []string `json:"requires_syntax,omitempty"`
}

// LoopRecord is one loop body (or loop else-clause) extent.
type LoopRecord struct {
	Body string `json:"body"`
}

// Document is a complete set of records for one project: the durable form
// of an analysis.
type Document struct {
	Root       string            `json:"root,omitempty"`
	Files      []string          `json:"files"`
	Functions  []FunctionRecord  `json:"functions"`
	Statements []StatementRecord `json:"statements"`
	Loops      []LoopRecord      `json:"loops"`
}

// Append adds the records of o to d.
func (d *Document) Append(o *Document) {
	d.Files = append(d.Files, o.Files...)
	d.Functions = append(d.Functions, o.Functions...)
	d.Statements = append(d.Statements, o.Statements...)
	d.Loops = append(d.Loops, o.Loops...)
}
