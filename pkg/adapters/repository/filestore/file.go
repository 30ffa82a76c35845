package filestore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

const filePerm = 0o644

// document mirrors domain.Dataset but keeps Links as a pointer so a missing
// "links" key can be told apart from an empty array.
type document struct {
	Categories []domain.Category `json:"categories,omitempty"`
	Links      *[]domain.Link    `json:"links"`
	Users      []domain.User     `json:"users,omitempty"`
}

func decodeDataset(path string, raw []byte) (*domain.Dataset, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(domain.ErrMalformedDataSource, "decode %s: %v", path, err)
	}
	if doc.Links == nil {
		return nil, errors.Wrapf(domain.ErrMalformedDataSource, "%s has no links array", path)
	}
	return &domain.Dataset{
		Categories: doc.Categories,
		Links:      *doc.Links,
		Users:      doc.Users,
	}, nil
}

func encodeDataset(ds *domain.Dataset) ([]byte, error) {
	links := ds.Links
	if links == nil {
		links = []domain.Link{}
	}
	doc := document{Categories: ds.Categories, Links: &links, Users: ds.Users}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encode dataset")
	}
	return buf.Bytes(), nil
}

// readFile loads path, mapping a missing file to ErrDataSourceUnavailable.
func readFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(domain.ErrDataSourceUnavailable, "data file %s does not exist", path)
		}
		return nil, errors.Wrapf(domain.ErrDataSourceUnavailable, "read %s: %v", path, err)
	}
	return raw, nil
}

// copyFile copies src over dst atomically. A missing src is reported as
// os.ErrNotExist.
func copyFile(src, dst string) error {
	raw, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeAtomic(dst, raw)
}

// writeAtomic writes data to path using the temp-file, fsync, rename
// pattern so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(domain.ErrDataSource, "create directory %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return errors.Wrapf(domain.ErrDataSource, "create temp file: %v", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(domain.ErrDataSource, "%s: %v", step, err)
	}

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		return fail("write temp file", err)
	}
	if err := w.Flush(); err != nil {
		return fail("flush temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync temp file", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fail("chmod temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(domain.ErrDataSource, "close temp file: %v", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(domain.ErrDataSource, "rename temp file: %v", err)
	}
	return nil
}

// ReadDataset decodes a dataset file written by this package or an export.
func ReadDataset(path string) (*domain.Dataset, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return decodeDataset(path, raw)
}

// Encode renders ds in the data file format.
func Encode(ds *domain.Dataset) ([]byte, error) {
	return encodeDataset(ds)
}
