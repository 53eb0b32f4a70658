package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// write encodes every rendered document, to one file per document when an
// output directory is configured and to the output writer otherwise.
func (a *App) write(results []*Rendered) error {
	if a.config.OutputDir == "" {
		for _, r := range results {
			if err := a.encode(a.outW, r); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range results {
		path := filepath.Join(a.config.OutputDir, filepath.FromSlash(r.ID)+"."+a.config.Format)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = a.encode(f, r)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		a.logger.Debug("Document written.", "id", r.ID, "path", path)
	}
	return nil
}

func (a *App) encode(w io.Writer, r *Rendered) error {
	if a.config.Format == FormatYAML {
		return encodeYAML(w, r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// encodeYAML writes v as a YAML document. v goes through its JSON encoding
// first so the element tree keeps its field names and order.
func encodeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles a JSON document parses
// with. The encoder still quotes strings that would read as other scalars.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
