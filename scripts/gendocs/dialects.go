package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/sqlt"
)

// generateDialectDocs writes a feature matrix and one page per dialect.
func generateDialectDocs(outDir string) error {
	log.Printf("Generating dialect docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := sqlt.Dialects()
	if err := os.WriteFile(filepath.Join(outDir, "index.md"), dialectIndex(names), 0600); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, name := range names {
		page := dialectPage(dialect.MustGet(name))
		if err := os.WriteFile(filepath.Join(outDir, name+".md"), page, 0600); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", name, err)
		}
		log.Printf("  Generated %s.md", name)
	}
	return nil
}

// dialectIndex renders the feature matrix: one row per feature, one
// column per dialect.
func dialectIndex(names []string) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Dialects", "SQL dialects supported by sqlt")
	w.GeneratedMarker()

	w.Header(1, "Dialects")
	w.Paragraph("Each dialect enables a set of syntax extensions on top of the common core. Input using a disabled extension is rejected with the position of the construct; output for a dialect without an extension is rewritten into an equivalent form where one exists.")

	headers := append([]string{"Feature"}, names...)
	var rows [][]string
	for _, f := range dialect.AllFeatures() {
		row := []string{InlineCode(f.String())}
		for _, name := range names {
			mark := ""
			if dialect.MustGet(name).Supports(f) {
				mark = "yes"
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}
	w.Table(headers, rows)
	return w.Bytes()
}

func dialectPage(d dialect.Dialect) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(d.Name(), fmt.Sprintf("The %s dialect", d.Name()))
	w.GeneratedMarker()

	w.Header(1, d.Name())
	w.Table([]string{"Property", "Value"}, [][]string{
		{"Identifier quotes", InlineCode(d.QuoteStyle().String())},
		{"Unquoted identifiers", d.IdentifierCase().String()},
		{"Keyword case", d.KeywordCase().String()},
	})

	var features []string
	for _, f := range dialect.AllFeatures() {
		if d.Supports(f) {
			features = append(features, InlineCode(f.String()))
		}
	}
	if len(features) > 0 {
		w.Header(2, "Syntax Extensions")
		w.BulletList(features)
	}

	p, ok := d.(*dialect.Profile)
	if !ok {
		return w.Bytes()
	}
	if suffixes := p.NumericSuffixes(); len(suffixes) > 0 {
		w.Header(2, "Numeric Suffixes")
		w.Paragraph(codeList(suffixes))
	}
	if reserved := p.ReservedWords(); len(reserved) > 0 {
		w.Header(2, "Reserved Words")
		w.Paragraph("In addition to the core keywords:")
		w.Paragraph(codeList(reserved))
	}
	if funcs := p.Functions(); len(funcs) > 0 {
		w.Header(2, "Functions")
		w.Paragraph(codeList(funcs))
	}
	return w.Bytes()
}

func codeList(words []string) string {
	out := make([]string, len(words))
	for i, word := range words {
		out[i] = InlineCode(word)
	}
	return strings.Join(out, ", ")
}
