package authstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/pkg/errors"
)

// DefaultJSONFile is the file JSONStore uses if none is given
const DefaultJSONFile = "auth.json"

// JSONStore keeps the credentials in a JSON object file such as
//
//	{"NID_AUT": "...", "NID_SES": "...", "NID_JKL": "..."}
//
// Any other keys in the file are preserved when saving.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore makes a JSONStore for the file at path
func NewJSONStore(path string) *JSONStore {
	if path == "" {
		path = DefaultJSONFile
	}
	return &JSONStore{path: path}
}

// read the whole file as a generic object
func (s *JSONStore) read() (map[string]interface{}, error) {
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	obj := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) == 0 {
		return obj, nil
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", s.path)
	}
	return obj, nil
}

// Load reads the credentials
func (s *JSONStore) Load(ctx context.Context) (t credential.Triple, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, err := s.read()
	if os.IsNotExist(err) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	for _, name := range credential.CookieNames {
		if value, ok := obj[name].(string); ok {
			t.Set(name, value)
		}
	}
	if t.IsEmpty() {
		return t, ErrNotFound
	}
	return t, nil
}

// Save writes the credentials
func (s *JSONStore) Save(ctx context.Context, t credential.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, err := s.read()
	if os.IsNotExist(err) {
		obj, err = map[string]interface{}{}, nil
	}
	if err != nil {
		return err
	}
	for _, name := range credential.CookieNames {
		obj[name] = t.Get(name)
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to encode credentials")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(err, "failed to make directory")
		}
	}
	if err := ioutil.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrapf(err, "failed to write %q", s.path)
	}
	fs.Debugf(nil, "Saved credentials to %q", s.path)
	return nil
}
