package rotz

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rotzdb/rotz/pkg/graph"
	"github.com/rotzdb/rotz/pkg/namespace"
)

// ExportFormat selects the output of Export.
type ExportFormat string

// Supported export formats.
const (
	FormatDOT ExportFormat = "dot"
	FormatGML ExportFormat = "gml"
	FormatCSV ExportFormat = "csv"
)

// ErrUnknownFormat is returned by Export for formats it cannot write.
var ErrUnknownFormat = errors.New("rotz: unknown export format")

// ParseExportFormat maps a user-supplied format name to an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(s)); f {
	case FormatDOT, FormatGML, FormatCSV:
		return f, nil
	case "":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// association is one tag-symbol pair as seen from the tag.
type association struct {
	tagID, symID graph.VertexID
	tag, sym     string
}

// Export writes every tag-symbol association in the given format.
//
// Each association appears once, from the tag's side. Names are massaged, so a
// pre-namespaced tag such as "genre:jazz" keeps its own prefix.
func (db *DB) Export(w io.Writer, format ExportFormat) error {
	release, err := db.acquire()
	if err != nil {
		return err
	}
	defer release()

	var writeAll func(io.Writer, []association) error
	switch format {
	case FormatDOT, "":
		writeAll = writeDOT
	case FormatGML:
		writeAll = writeGML
	case FormatCSV:
		writeAll = writeCSV
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var assocs []association
	err = db.graph.Adjacency(func(from graph.VertexID, edges graph.VertexList) error {
		name, ok, err := db.graph.GetName(from)
		if err != nil {
			return err
		}
		if !ok || namespace.IsSym(name) {
			return nil
		}
		tag := namespace.Massage(name)
		for _, to := range edges {
			sym, err := db.displayName(to)
			if err != nil {
				return err
			}
			assocs = append(assocs, association{tagID: from, symID: to, tag: tag, sym: sym})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return writeAll(w, assocs)
}

func quoteDOT(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func writeDOT(w io.Writer, assocs []association) error {
	fmt.Fprintln(w, "graph rotz {")
	for _, a := range assocs {
		fmt.Fprintf(w, "  %s -- %s;\n", quoteDOT(a.tag), quoteDOT(a.sym))
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// quoteGML quotes a GML string. GML strings have no backslash escapes; quotes and
// ampersands are written as character entities.
func quoteGML(s string) string {
	return `"` + gmlEscaper.Replace(s) + `"`
}

var gmlEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;")

func writeGML(w io.Writer, assocs []association) error {
	fmt.Fprintln(w, "graph [")
	fmt.Fprintln(w, "  directed 0")

	seen := make(map[graph.VertexID]bool)
	node := func(id graph.VertexID, label string) {
		if seen[id] {
			return
		}
		seen[id] = true
		fmt.Fprintf(w, "  node [ id %d label %s ]\n", id, quoteGML(label))
	}
	for _, a := range assocs {
		node(a.tagID, a.tag)
		node(a.symID, a.sym)
	}
	for _, a := range assocs {
		fmt.Fprintf(w, "  edge [ source %d target %d ]\n", a.tagID, a.symID)
	}
	_, err := fmt.Fprintln(w, "]")
	return err
}

func writeCSV(w io.Writer, assocs []association) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tag", "symbol"}); err != nil {
		return err
	}
	for _, a := range assocs {
		if err := cw.Write([]string{a.tag, a.sym}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
