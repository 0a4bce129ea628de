// Package datasource reads and writes outline documents and tracks the
// recently opened ones in a small SQLite index under the state directory.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/fold/pkg/metrics"
	"github.com/vanderheijden86/fold/pkg/model"
)

// outlineFile is the on-disk shape of a document.
type outlineFile struct {
	Version      int         `json:"version"`
	Root         *model.Node `json:"root"`
	CollapsedIDs []string    `json:"collapsedNodeIds,omitempty"`
	FocusedID    string      `json:"focusedNodeId,omitempty"`
}

// OutlineFileVersion is the current document schema version.
const OutlineFileVersion = 1

// LoadOutline reads an outline document from path. A missing file returns
// a fresh single-root outline rather than an error; anything else fails.
func LoadOutline(path string) (*model.Outline, error) {
	defer metrics.Timer(metrics.OutlineLoad)()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewOutline(nil), nil
		}
		return nil, fmt.Errorf("reading outline: %w", err)
	}

	var f outlineFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing outline %s: %w", path, err)
	}

	o := model.NewOutline(f.Root)
	o.SetCollapsedIDs(f.CollapsedIDs)
	o.SetFocusedNodeID(f.FocusedID)
	return o, nil
}

// SaveOutline writes the outline document to path via a temp file and
// rename, so the sync layer never picks up a half-written document.
func SaveOutline(o *model.Outline, path string) error {
	defer metrics.Timer(metrics.OutlineSave)()

	f := outlineFile{
		Version:      OutlineFileVersion,
		Root:         o.Root,
		CollapsedIDs: o.CollapsedIDs(),
		FocusedID:    o.FocusedNodeID(),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling outline: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating outline directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating outline temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing outline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing outline: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing outline file: %w", err)
	}
	return nil
}
