// Package archive implements the tar.gz container format used for notebook
// import and export: one payload entry per notebook plus a metadata.json
// sidecar describing every payload.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// SidecarName is the required sidecar entry at the archive root.
	SidecarName = "metadata.json"
	// NotebookExt is the payload entry extension; the sidecar is keyed by the
	// entry name with this extension stripped.
	NotebookExt = ".ipynb"
)

// ErrBadFormat marks an archive the codec cannot accept: undecodable
// container, or a missing/empty sidecar.
var ErrBadFormat = errors.New("bad archive format")

// Meta is the sidecar metadata record for one notebook entry.
type Meta struct {
	UUID        string   `json:"uuid,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	OwnerKind   string   `json:"owner_type,omitempty"`
	Creator     string   `json:"creator,omitempty"`
	Updater     string   `json:"updater,omitempty"`
	Created     *Date    `json:"created,omitempty"`
	Updated     *Date    `json:"updated,omitempty"`
	Public      *bool    `json:"public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Entry is a non-sidecar archive member in archive order.
type Entry struct {
	Name    string
	Content []byte
}

// Archive is a fully decoded import archive.
type Archive struct {
	Metadata map[string]Meta
	Entries  []Entry
}

// Key derives the sidecar lookup key from an entry name.
func Key(name string) string {
	return strings.TrimSuffix(name, NotebookExt)
}

// Decode reads a gzipped tar stream and returns the parsed sidecar plus all
// other entries in archive order. The sidecar must exist and be non-empty.
func Decode(r io.Reader) (*Archive, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var sidecar []byte
	var entries []Entry
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		if hdr.Name == SidecarName {
			sidecar = content
			continue
		}
		entries = append(entries, Entry{Name: hdr.Name, Content: content})
	}
	if len(sidecar) == 0 {
		return nil, fmt.Errorf("%w: metadata.json file is missing", ErrBadFormat)
	}
	var metadata map[string]Meta
	if err := json.Unmarshal(sidecar, &metadata); err != nil {
		return nil, fmt.Errorf("%w: metadata.json: %v", ErrBadFormat, err)
	}
	return &Archive{Metadata: metadata, Entries: entries}, nil
}

// Item is one notebook to include in an export archive.
type Item struct {
	Key     string
	Meta    Meta
	Content []byte
}

// Encode writes one `<key>.ipynb` entry per item followed by the sidecar
// covering all of them. The caller guarantees a non-empty selection.
func Encode(w io.Writer, items []Item) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	metadata := make(map[string]Meta, len(items))
	for _, it := range items {
		metadata[it.Key] = it.Meta
		hdr := &tar.Header{Name: it.Key + NotebookExt, Mode: 0644, Size: int64(len(it.Content))}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write entry header: %w", err)
		}
		if _, err := tw.Write(it.Content); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}

	sidecar, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	hdr := &tar.Header{Name: SidecarName, Mode: 0644, Size: int64(len(sidecar))}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write sidecar header: %w", err)
	}
	if _, err := tw.Write(sidecar); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(items []Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
