package chunkvm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
)

// CheckpointBackend persists and restores opaque checkpoint bytes,
// matching spec.md §6's "save(name, bytes) -> id; load(id) -> bytes"
// collaborator interface.
type CheckpointBackend interface {
	Save(name string, data []byte) (string, error)
	Load(id string) ([]byte, error)
}

// FileBackend stores each checkpoint as a file under Dir, named by a
// generated UUID so repeated saves under the same logical name never
// collide. Grounded on original_source/uor/vm/checkpoint.py's
// FileBackend.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend { return &FileBackend{Dir: dir} }

func (b *FileBackend) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return "", &VMError{Code: CodeBackend, Message: "creating checkpoint directory", Cause: err}
	}
	id := uuid.NewString()
	path := filepath.Join(b.Dir, fmt.Sprintf("%s-%s.chk", name, id))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &VMError{Code: CodeBackend, Message: "writing checkpoint", Cause: err}
	}
	return id, nil
}

func (b *FileBackend) Load(id string) ([]byte, error) {
	matches, err := filepath.Glob(filepath.Join(b.Dir, "*-"+id+".chk"))
	if err != nil || len(matches) == 0 {
		return nil, &VMError{Code: CodeBackend, Message: "no checkpoint with id " + id}
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, &VMError{Code: CodeBackend, Message: "reading checkpoint", Cause: err}
	}
	return data, nil
}

// LevelDBBackend stores checkpoints as key-value entries in an
// embedded LevelDB database, keyed by a generated UUID. Grounded on
// original_source/uor/vm/checkpoint.py's non-local backends, adapted
// to an embedded store from the dependency-donor pack rather than a
// network object store.
type LevelDBBackend struct {
	db *leveldb.DB
}

func OpenLevelDBBackend(path string) (*LevelDBBackend, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, &VMError{Code: CodeBackend, Message: "opening leveldb", Cause: err}
	}
	return &LevelDBBackend{db: db}, nil
}

func (b *LevelDBBackend) Save(name string, data []byte) (string, error) {
	id := uuid.NewString()
	key := []byte(name + ":" + id)
	if err := b.db.Put(key, data, nil); err != nil {
		return "", &VMError{Code: CodeBackend, Message: "writing checkpoint", Cause: err}
	}
	if err := b.db.Put([]byte("id:"+id), key, nil); err != nil {
		return "", &VMError{Code: CodeBackend, Message: "indexing checkpoint", Cause: err}
	}
	return id, nil
}

func (b *LevelDBBackend) Load(id string) ([]byte, error) {
	key, err := b.db.Get([]byte("id:"+id), nil)
	if err != nil {
		return nil, &VMError{Code: CodeBackend, Message: "no checkpoint with id " + id, Cause: err}
	}
	data, err := b.db.Get(key, nil)
	if err != nil {
		return nil, &VMError{Code: CodeBackend, Message: "reading checkpoint", Cause: err}
	}
	return data, nil
}

func (b *LevelDBBackend) Close() error { return b.db.Close() }
