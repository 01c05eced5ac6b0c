// Package configfile implements a config file loader and saver
package configfile

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Unknwon/goconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/pkg/errors"
)

// ErrorConfigFileNotFound is returned when the config file doesn't exist
var ErrorConfigFileNotFound = errors.New("config file not found")

// DefaultPath returns the default location of the config file,
// ~/.config/mybox/mybox.conf
func DefaultPath() string {
	home, err := homedir.Dir()
	if err != nil {
		fs.Errorf(nil, "Couldn't find home directory: %v", err)
		return "mybox.conf"
	}
	return filepath.Join(home, ".config", "mybox", "mybox.conf")
}

// Storage saves and loads config data in a simple INI based file.
type Storage struct {
	path      string
	mu        sync.Mutex           // to protect the following variables
	gc        *goconfig.ConfigFile // config file loaded - not thread safe
	fiModTime time.Time            // stat of the file when last loaded
	fiSize    int64                // stat of the file size
}

// New makes a Storage for the config file at path. Call Load before use.
func New(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the file the Storage reads and writes
func (s *Storage) Path() string {
	return s.path
}

// Check to see if we need to reload the config
//
// mu must be held when calling this
func (s *Storage) _check() {
	if s.gc == nil {
		s.gc, _ = goconfig.LoadFromReader(bytes.NewReader([]byte{}))
	}
	if s.path == "" {
		return
	}
	// Check to see if config file has changed since it was last loaded
	fi, err := os.Stat(s.path)
	if err == nil {
		if fi.ModTime().After(s.fiModTime) || fi.Size() != s.fiSize {
			fs.Debugf(nil, "Config file has changed externally - reloading")
			err := s._load()
			if err != nil {
				fs.Errorf(nil, "Failed to read config file - using previous config: %v", err)
			}
		}
	}
}

// _load the config from permanent storage
//
// mu must be held when calling this
func (s *Storage) _load() (err error) {
	// Make sure we have a sensible default even when we error
	defer func() {
		if s.gc == nil {
			s.gc, _ = goconfig.LoadFromReader(bytes.NewReader([]byte{}))
		}
	}()

	if s.path == "" {
		return ErrorConfigFileNotFound
	}
	fd, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrorConfigFileNotFound
		}
		return err
	}
	defer fs.CheckClose(fd, &err)

	fi, err := fd.Stat()
	if err != nil {
		return err
	}

	gc, err := goconfig.LoadFromReader(fd)
	if err != nil {
		return errors.Wrap(err, "failed to parse config file")
	}
	s.gc = gc
	s.fiModTime, s.fiSize = fi.ModTime(), fi.Size()
	return nil
}

// Load the config from permanent storage
func (s *Storage) Load() (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s._load()
}

// _save the config to permanent storage
//
// mu must be held when calling this
func (s *Storage) _save() (err error) {
	if s.gc == nil {
		s.gc, _ = goconfig.LoadFromReader(bytes.NewReader([]byte{}))
	}
	if s.path == "" {
		return errors.New("failed to save config file, path is empty")
	}
	var buf bytes.Buffer
	if err := goconfig.SaveConfigData(s.gc, &buf); err != nil {
		return errors.Wrap(err, "failed to save config file")
	}

	configPath, err := filepath.EvalSymlinks(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to resolve config file path")
		}
		configPath = s.path
	}
	dir, name := filepath.Split(configPath)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	td, err := os.CreateTemp(dir, name)
	if err != nil {
		return errors.Wrap(err, "failed to create temp file for new config")
	}
	defer func() {
		_ = td.Close()
		if err := os.Remove(td.Name()); err != nil && !os.IsNotExist(err) {
			fs.Errorf(nil, "Failed to remove temp config file: %v", err)
		}
	}()

	if _, err = td.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	if err = td.Sync(); err != nil {
		return errors.Wrap(err, "failed to write config file to disk")
	}
	if err = td.Close(); err != nil {
		return errors.Wrap(err, "failed to close config file")
	}

	var fileMode os.FileMode = 0600
	info, err := os.Stat(configPath)
	if err != nil {
		fs.Debugf(nil, "Using default permissions for config file: %v", fileMode)
	} else if info.Mode() != fileMode {
		fs.Debugf(nil, "Keeping previous permissions for config file: %v", info.Mode())
		fileMode = info.Mode()
	}
	if err = os.Chmod(td.Name(), fileMode); err != nil {
		fs.Errorf(nil, "Failed to set permissions on config file: %v", err)
	}
	if err = os.Rename(td.Name(), configPath); err != nil {
		return errors.Wrapf(err, "failed to move newly written config from %s to final location", td.Name())
	}

	fi, err := os.Stat(configPath)
	if err == nil {
		s.fiModTime, s.fiSize = fi.ModTime(), fi.Size()
	}
	return nil
}

// Save the config to permanent storage
func (s *Storage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s._save()
}

// Serialize the config into a string
func (s *Storage) Serialize() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	var buf bytes.Buffer
	if err := goconfig.SaveConfigData(s.gc, &buf); err != nil {
		return "", errors.Wrap(err, "failed to save config file")
	}
	return buf.String(), nil
}

// HasSection returns true if section exists in the config file
func (s *Storage) HasSection(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	_, err := s.gc.GetSection(section)
	return err == nil
}

// DeleteSection removes the named section and all config from the
// config file
func (s *Storage) DeleteSection(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	s.gc.DeleteSection(section)
}

// GetSectionList returns a slice of strings with names for all the
// sections
func (s *Storage) GetSectionList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	return s.gc.GetSectionList()
}

// GetKeyList returns the keys in this section
func (s *Storage) GetKeyList(section string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	return s.gc.GetKeyList(section)
}

// GetValue returns the key in section with a found flag
func (s *Storage) GetValue(section string, key string) (value string, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	value, err := s.gc.GetValue(section, key)
	if err != nil {
		return "", false
	}
	return value, true
}

// SetValue sets the value under key in section
func (s *Storage) SetValue(section string, key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	s.gc.SetValue(section, key, value)
}

// DeleteKey removes the key under section
func (s *Storage) DeleteKey(section string, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s._check()
	return s.gc.DeleteKey(section, key)
}

// Section is a configmap.Mapper onto one section of the config file.
//
// Set only changes the in memory copy - call Save on the Storage to
// persist it.
type Section struct {
	s    *Storage
	name string
}

// Section returns a configmap.Mapper for the named section
func (s *Storage) Section(name string) *Section {
	return &Section{s: s, name: name}
}

// Get a value from the section
func (c *Section) Get(key string) (value string, ok bool) {
	return c.s.GetValue(c.name, key)
}

// Set a value in the section
func (c *Section) Set(key, value string) {
	c.s.SetValue(c.name, key, value)
}

// Check the interface is satisfied
var _ configmap.Mapper = (*Section)(nil)
