package jupyter

import (
	"encoding/json"
	"fmt"
)

// Notebook is a parsed Jupyter notebook payload. It keeps the generic JSON
// tree so author content survives untouched; only execution artifacts and
// gallery bookkeeping are ever modified.
type Notebook struct {
	root map[string]any
}

// Parse decodes raw notebook bytes. The payload must be a JSON object.
func Parse(data []byte) (*Notebook, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse notebook: %w", err)
	}
	return &Notebook{root: root}, nil
}

func (n *Notebook) cells() []any {
	cells, _ := n.root["cells"].([]any)
	return cells
}

// StripOutput clears execution outputs and counts from code cells. Markdown
// and raw cells are left alone.
func (n *Notebook) StripOutput() {
	for _, c := range n.cells() {
		cell, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if cell["cell_type"] != "code" {
			continue
		}
		cell["outputs"] = []any{}
		cell["execution_count"] = nil
	}
}

// StripGalleryMeta removes gallery-internal bookkeeping from the notebook
// metadata and from each cell's metadata.
func (n *Notebook) StripGalleryMeta() {
	if meta, ok := n.root["metadata"].(map[string]any); ok {
		delete(meta, "gallery")
	}
	for _, c := range n.cells() {
		cell, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if meta, ok := cell["metadata"].(map[string]any); ok {
			delete(meta, "gallery")
		}
	}
}

// Language returns the notebook language and version detected from
// metadata.language_info, falling back to the kernelspec.
func (n *Notebook) Language() (lang, version string) {
	meta, _ := n.root["metadata"].(map[string]any)
	if meta == nil {
		return "", ""
	}
	if li, ok := meta["language_info"].(map[string]any); ok {
		lang, _ = li["name"].(string)
		version, _ = li["version"].(string)
	}
	if lang == "" {
		if ks, ok := meta["kernelspec"].(map[string]any); ok {
			if s, ok := ks["language"].(string); ok && s != "" {
				lang = s
			} else if s, ok := ks["name"].(string); ok {
				lang = s
			}
		}
	}
	return lang, version
}

// Validate checks structural constraints and returns one cause per problem.
// An empty slice means the notebook is well-formed.
func (n *Notebook) Validate() []string {
	var causes []string
	v, ok := n.root["nbformat"].(float64)
	if !ok {
		causes = append(causes, "nbformat: missing")
	} else if int(v) < 4 {
		causes = append(causes, fmt.Sprintf("nbformat: version %d not supported", int(v)))
	}
	cells, ok := n.root["cells"].([]any)
	if !ok {
		causes = append(causes, "cells: missing or not a list")
		return causes
	}
	for i, c := range cells {
		cell, ok := c.(map[string]any)
		if !ok {
			causes = append(causes, fmt.Sprintf("cells[%d]: not an object", i))
			continue
		}
		if s, _ := cell["cell_type"].(string); s == "" {
			causes = append(causes, fmt.Sprintf("cells[%d]: cell_type missing", i))
		}
		if _, ok := cell["source"]; !ok {
			causes = append(causes, fmt.Sprintf("cells[%d]: source missing", i))
		}
	}
	return causes
}

// PrettyJSON serializes the notebook in the canonical form committed to the
// store. Keys are emitted in sorted order, so two notebooks with the same
// author content serialize identically.
func (n *Notebook) PrettyJSON() ([]byte, error) {
	return json.MarshalIndent(n.root, "", " ")
}
