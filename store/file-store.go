package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// errCorruptDocument marks a storage file that exists but cannot be parsed.
var errCorruptDocument = errors.New("corrupt storage document")

// FileStore keeps every key in a single yaml or json document.
type FileStore struct {
	dir    string
	format string
	mu     sync.Mutex
}

var _ KV = (*FileStore)(nil)

// NewFileStore creates the directory if needed and validates the format.
func NewFileStore(dir, format string) (*FileStore, error) {
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "yaml" {
		return nil, fmt.Errorf("unsupported storage format: %s", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, format: format}, nil
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return filepath.Join(fs.dir, "storage."+fs.format)
}

func (fs *FileStore) marshal(data map[string]string) ([]byte, error) {
	if fs.format == "yaml" {
		return yaml.Marshal(data)
	}
	return json.MarshalIndent(data, "", "  ")
}

func (fs *FileStore) unmarshal(raw []byte, data *map[string]string) error {
	if fs.format == "yaml" {
		return yaml.Unmarshal(raw, data)
	}
	return json.Unmarshal(raw, data)
}

// loadData reads the whole document. A missing or empty file is an empty map.
func (fs *FileStore) loadData() (map[string]string, error) {
	data := map[string]string{}
	raw, err := os.ReadFile(fs.Path())
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := fs.unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %v", fs.Path(), errCorruptDocument, err)
	}
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

// saveData writes through a temp file so readers never see a partial document.
func (fs *FileStore) saveData(data map[string]string) error {
	serialized, err := fs.marshal(data)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(fs.dir, ".storage-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(serialized); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fs.Path())
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, err := fs.loadData()
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, err := fs.loadData()
	if errors.Is(err, errCorruptDocument) {
		data, err = fs.quarantine(err)
	}
	if err != nil {
		return err
	}
	data[key] = value
	return fs.saveData(data)
}

// quarantine moves an unreadable document aside so the next write starts
// fresh without losing the old bytes.
func (fs *FileStore) quarantine(cause error) (map[string]string, error) {
	backup := fs.Path() + ".corrupt"
	logrus.WithError(cause).WithField("backup", backup).Warn("storage document is corrupt, starting a new one")
	if err := os.Rename(fs.Path(), backup); err != nil {
		return nil, errors.Wrapf(err, "failed to move corrupt document to %s", backup)
	}
	return map[string]string{}, nil
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, err := fs.loadData()
	if errors.Is(err, errCorruptDocument) {
		data, err = fs.quarantine(err)
	}
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return fs.saveData(data)
}

func (fs *FileStore) Close() error {
	return nil
}
