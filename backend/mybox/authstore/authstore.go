// Package authstore persists the NAVER session cookies between runs.
//
// All the stores implement nidlogin.Persister.
package authstore

import (
	"context"
	"strings"

	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/myboxcli/mybox/fs/config/obscure"
	"github.com/pkg/errors"
)

// ErrNotFound is returned by Load when no credentials have been saved
var ErrNotFound = errors.New("no saved credentials")

// configKey returns the config key a cookie is saved under, eg "nid_aut"
func configKey(cookie string) string {
	return strings.ToLower(cookie)
}

// ConfigStore keeps the credentials obscured in a config section
type ConfigStore struct {
	m    configmap.Mapper
	save func() error
}

// NewConfigStore makes a ConfigStore reading and writing m. save is
// called after the values have been set and may be nil.
func NewConfigStore(m configmap.Mapper, save func() error) *ConfigStore {
	return &ConfigStore{m: m, save: save}
}

// Load reads the credentials
func (s *ConfigStore) Load(ctx context.Context) (t credential.Triple, err error) {
	for _, name := range credential.CookieNames {
		value, ok := s.m.Get(configKey(name))
		if !ok || value == "" {
			continue
		}
		value, err = obscure.Reveal(value)
		if err != nil {
			return t, errors.Wrapf(err, "couldn't read %s", configKey(name))
		}
		t.Set(name, value)
	}
	if t.IsEmpty() {
		return t, ErrNotFound
	}
	return t, nil
}

// Save writes the credentials
func (s *ConfigStore) Save(ctx context.Context, t credential.Triple) error {
	for _, name := range credential.CookieNames {
		value := t.Get(name)
		if value != "" {
			var err error
			value, err = obscure.Obscure(value)
			if err != nil {
				return errors.Wrapf(err, "couldn't obscure %s", configKey(name))
			}
		}
		s.m.Set(configKey(name), value)
	}
	if s.save == nil {
		return nil
	}
	if err := s.save(); err != nil {
		return errors.Wrap(err, "failed to save config")
	}
	fs.Debugf(nil, "Saved credentials to config")
	return nil
}
