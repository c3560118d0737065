// Package bundle stores a tree together with its fact table in one msgpack
// file. The CLI reads its inputs from bundles and writes results back.
package bundle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"desugar/internal/ast"
	"desugar/internal/oracle"
)

// SchemaVersion is written ahead of every payload; bump it when the node
// or fact layout changes.
const SchemaVersion uint16 = 1

// ErrSchemaMismatch reports a bundle written with another schema version.
var ErrSchemaMismatch = errors.New("bundle schema mismatch")

// File is one tree and the facts computed for it. Facts may be nil.
type File struct {
	Name  string
	Tree  *ast.Tree
	Facts *oracle.Table
}

type payload struct {
	Name  string
	Tree  *ast.Tree
	Facts *oracle.Table
}

// Encode writes the schema version followed by f.
func Encode(w io.Writer, f *File) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeUint16(SchemaVersion); err != nil {
		return err
	}
	return enc.Encode(&payload{Name: f.Name, Tree: f.Tree, Facts: f.Facts})
}

// Decode reads a bundle written by Encode.
func Decode(r io.Reader) (*File, error) {
	dec := msgpack.NewDecoder(r)
	schema, err := dec.DecodeUint16()
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, schema, SchemaVersion)
	}
	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if p.Tree == nil || p.Tree.B == nil {
		return nil, errors.New("bundle has no tree")
	}
	return &File{Name: p.Name, Tree: p.Tree, Facts: p.Facts}, nil
}

// Write stores f at path. The file is written next to its destination and
// renamed into place, so readers never see a partial bundle.
func Write(path string, f *File) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".bundle-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = Encode(w, f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(tmp.Name(), path)
}

// Read loads the bundle at path.
func Read(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Decode(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
