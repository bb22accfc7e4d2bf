// Package state persists contact stores as JSON files.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/smileynet/rolodex/internal/contact"
	"github.com/smileynet/rolodex/internal/logging"
)

// DefaultIndent is the number of spaces per indent level in saved files.
const DefaultIndent = 4

// Sentinel errors. Every error returned by FileStore wraps exactly one of them.
var (
	ErrRead  = errors.New("state: read failed")
	ErrWrite = errors.New("state: write failed")
	ErrParse = errors.New("state: malformed contacts file")
)

// Contacts is the part of a contact store that FileStore needs.
type Contacts interface {
	All() []contact.Person
	ReplaceAll([]contact.Person)
}

// record is the on-disk shape of a Person. Field order fixes key order in output.
type record struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Age     int    `json:"age"`
}

// requiredKeys lists the object keys every element must carry, in output order.
var requiredKeys = []string{"name", "email", "phone", "address", "age"}

// FileStore saves and loads contact stores as JSON arrays.
type FileStore struct {
	indent int
	log    logging.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithIndent sets the number of spaces per indent level. Zero writes compact JSON.
func WithIndent(n int) Option {
	return func(s *FileStore) { s.indent = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logging.Logger) Option {
	return func(s *FileStore) { s.log = l }
}

// NewFileStore creates a FileStore with the given options.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{indent: DefaultIndent, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes every contact in c, in order, to path, replacing any existing file.
// The data is written to a temporary file beside path and renamed into place,
// so a failed save leaves path as it was.
func (s *FileStore) Save(c Contacts, path string) error {
	people := c.All()

	var buf bytes.Buffer
	if err := s.Encode(&buf, people); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		s.log.Warn("save failed", "path", path, "err", err)
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	s.log.Info("saved contacts", "path", path, "count", len(people))
	return nil
}

// Load reads path and replaces the contents of c with the contacts it holds.
// On any error c is left unchanged.
func (s *FileStore) Load(c Contacts, path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.log.Warn("load failed", "path", path, "err", err)
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	data, err := io.ReadAll(f)
	if err != nil {
		s.log.Warn("load failed", "path", path, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	people, err := decode(data)
	if err != nil {
		s.log.Warn("load failed", "path", path, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	c.ReplaceAll(people)
	s.log.Info("loaded contacts", "path", path, "count", len(people))
	return nil
}

// Encode writes people to w as a JSON array followed by a newline.
func (s *FileStore) Encode(w io.Writer, people []contact.Person) error {
	recs := make([]record, 0, len(people))
	for _, p := range people {
		recs = append(recs, record{
			Name:    p.Name,
			Email:   p.Email,
			Phone:   p.Phone,
			Address: p.Address,
			Age:     p.Age,
		})
	}

	var (
		data []byte
		err  error
	)
	if s.indent > 0 {
		data, err = json.MarshalIndent(recs, "", strings.Repeat(" ", s.indent))
	} else {
		data, err = json.Marshal(recs)
	}
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("state: writing: %w", err)
	}
	return nil
}

// Decode reads a JSON array of contact objects from r. Every element must carry
// all five keys with non-null values of the right type; extra keys are ignored.
func (s *FileStore) Decode(r io.Reader) ([]contact.Person, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	people, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return people, nil
}

func decode(data []byte) ([]contact.Person, error) {
	var objs []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, err
	}
	// A literal null decodes without error and leaves the slice nil.
	if objs == nil {
		return nil, errors.New("expected a JSON array, got null")
	}

	people := make([]contact.Person, 0, len(objs))
	for i, obj := range objs {
		p, err := person(obj)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		people = append(people, p)
	}
	return people, nil
}

// person converts one decoded object into a Person. Keys are matched exactly;
// a key that differs from a required one only by case is rejected rather than
// read, so {"NAME": ...} is missing "name" and {"name": ..., "Name": ...} is
// ambiguous. Other extra keys are ignored.
func person(obj map[string]json.RawMessage) (contact.Person, error) {
	for k := range obj {
		for _, want := range requiredKeys {
			if k != want && strings.EqualFold(k, want) {
				return contact.Person{}, fmt.Errorf("key %q must be spelled %q", k, want)
			}
		}
	}

	var p contact.Person
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"name", &p.Name},
		{"email", &p.Email},
		{"phone", &p.Phone},
		{"address", &p.Address},
	} {
		v, err := field(obj, f.key)
		if err != nil {
			return contact.Person{}, err
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return contact.Person{}, fmt.Errorf("key %q: %w", f.key, err)
		}
	}

	v, err := field(obj, "age")
	if err != nil {
		return contact.Person{}, err
	}
	if err := json.Unmarshal(v, &p.Age); err != nil {
		return contact.Person{}, fmt.Errorf("key %q: %w", "age", err)
	}
	return p, nil
}

// field returns the raw value stored under key, rejecting missing and null values.
func field(obj map[string]json.RawMessage, key string) (json.RawMessage, error) {
	v, ok := obj[key]
	if !ok || string(bytes.TrimSpace(v)) == "null" {
		return nil, fmt.Errorf("missing or null key %q", key)
	}
	return v, nil
}

// newFileMode is the permission set given to files that did not exist before.
const newFileMode os.FileMode = 0o644

// writeFileAtomic writes data to a temporary file in path's directory and
// renames it over path. An existing file keeps its permission bits. The
// temporary file is removed on every failure path.
func writeFileAtomic(path string, data []byte) (err error) {
	if path == "" {
		return errors.New("empty path")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(fileMode(path)); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// fileMode returns the permission bits of the file at path, or newFileMode if
// there is none.
func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return newFileMode
	}
	return info.Mode().Perm()
}
