package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/surveyor/pkg/domain"
)

// LineageOverlay marks archived paths on the lineage graph.
type LineageOverlay struct {
	Deadended []string
	Errored   []string
}

// GenerateMermaid produces a Mermaid flowchart of the lineage shared by records.
// Every backtrace prefix becomes one node, so common ancestors are drawn once.
// The root of each lineage is drawn as ((Circle)) and archived paths as [Rectangle]
// styled by the overlay, if provided.
func GenerateMermaid(records []domain.Record, overlay *LineageOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[string]bool)
	edges := make(map[string]bool)

	for _, rec := range records {
		prefix := ""
		parent := ""
		for depth, label := range rec.Backtrace {
			if depth == 0 {
				prefix = label
			} else {
				prefix += "." + label
			}
			safeID := sanitizeMermaidID(prefix)

			if !declared[safeID] {
				declared[safeID] = true
				opener, closer := "[", "]"
				if depth == 0 {
					opener, closer = "((", "))"
				}
				sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, strings.ReplaceAll(label, "\"", "'"), closer))
			}
			if parent != "" {
				edge := parent + " --> " + safeID
				if !edges[edge] {
					edges[edge] = true
					sb.WriteString("    " + edge + "\n")
				}
			}
			parent = safeID
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) so labels stay readable on both themes.
		sb.WriteString("    classDef deadended fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef errored fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		writeClass(&sb, overlay.Deadended, "deadended")
		writeClass(&sb, overlay.Errored, "errored")
	}

	return sb.String()
}

// OverlayFor builds an overlay from archived records, keyed by their joined backtrace.
func OverlayFor(deadended, errored []domain.Record) *LineageOverlay {
	overlay := &LineageOverlay{}
	for _, r := range deadended {
		overlay.Deadended = append(overlay.Deadended, strings.Join(r.Backtrace, "."))
	}
	for _, r := range errored {
		overlay.Errored = append(overlay.Errored, strings.Join(r.Backtrace, "."))
	}
	return overlay
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	seen := make(map[string]bool)
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if !seen[safeID] && safeID != "" {
			seen[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, class))
		}
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
