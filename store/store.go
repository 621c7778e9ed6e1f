/*
 * store.go, part of gonb.
 *
 * Copyright 2026 The gonb Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package store keeps named forcefield checkpoints in a BadgerDB database.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	nb "github.com/rmera/gonb"
	"github.com/rmera/gonb/ff"
	"github.com/rmera/gonb/nbio"
)

//ErrNotFound is returned when there is no checkpoint with the requested name.
var ErrNotFound = errors.New("checkpoint not found")

const (
	dataPrefix = "ckpt/"
	infoPrefix = "info/"
	infoTag    = "CheckpointInfo"
)

//Config contains the settings of a store.
type Config struct {
	//Path is the database directory. Required unless InMemory is true.
	Path string

	InMemory bool

	SyncWrites bool

	//Logger receives the messages of BadgerDB. If nil, they are dropped.
	Logger *slog.Logger
}

//DefaultConfig returns the settings for a persistent store with synchronous writes.
//The path still needs to be set.
func DefaultConfig() Config {
	return Config{SyncWrites: true}
}

//InMemoryConfig returns the settings for a store that lives only in memory.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

//badgerLogger sends BadgerDB messages to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

//Info describes a stored checkpoint.
type Info struct {
	Name      string
	Saved     time.Time
	Molecules int
	Energy    float64 //total energy when the checkpoint was saved, in kcal/mol
	Dirty     bool    //whether there were changes not yet accounted for in Energy
	Size      int     //compressed size, in bytes
}

//Store is a database of named checkpoints. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	log *slog.Logger
}

//Open opens the store described by cfg, creating it if needed.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store.Open: path is required for a persistent store")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("store.Open: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	log := cfg.Logger
	if log != nil {
		opts = opts.WithLogger(&badgerLogger{logger: log})
	} else {
		opts = opts.WithLogger(nil)
		log = slog.Default()
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

//Close closes the database.
func (S *Store) Close() error {
	return S.db.Close()
}

func encodeInfo(I Info) []byte {
	var buf bytes.Buffer
	E := nbio.NewEncoder(&buf)
	E.Header(infoTag, 1)
	E.String(I.Name)
	E.Uint64(uint64(I.Saved.UnixNano()))
	E.Int(I.Molecules)
	E.Float64(I.Energy)
	E.Bool(I.Dirty)
	E.Int(I.Size)
	return buf.Bytes() //a bytes.Buffer can't fail
}

func decodeInfo(data []byte) (Info, error) {
	D := nbio.NewDecoder(bytes.NewReader(data))
	D.Header(infoTag, 1)
	var I Info
	I.Name = D.String()
	I.Saved = time.Unix(0, int64(D.Uint64()))
	I.Molecules = D.Int()
	I.Energy = D.Float64()
	I.Dirty = D.Bool()
	I.Size = D.Int()
	return I, D.Err()
}

//Put saves a checkpoint of F under name, replacing any previous one.
//The energy stored in the Info is the last one F computed.
func (S *Store) Put(ctx context.Context, name string, F *ff.InterFF) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store.Put: %w", err)
	}
	var buf bytes.Buffer
	if err := F.Save(&buf); err != nil {
		return nb.Decorate(err, "store.Put")
	}
	dirty := F.IsDirty()
	var energy float64
	if !dirty {
		energy = F.Energy().Total()
	}
	info := Info{Name: name, Saved: time.Now(), Molecules: F.NMolecules(), Energy: energy, Dirty: dirty, Size: buf.Len()}
	err := S.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(dataPrefix+name), buf.Bytes()); err != nil {
			return err
		}
		return txn.Set([]byte(infoPrefix+name), encodeInfo(info))
	})
	if err != nil {
		return fmt.Errorf("store.Put: %s: %w", name, err)
	}
	S.log.Debug("checkpoint stored", "name", name, "bytes", info.Size, "molecules", info.Molecules)
	return nil
}

//Get loads the checkpoint stored under name. Only the logger is taken from opts, which can be nil.
func (S *Store) Get(ctx context.Context, name string, opts *ff.Options) (*ff.InterFF, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("store.Get: %w", err)
	}
	var data []byte
	err := S.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(dataPrefix + name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("store.Get: %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Get: %s: %w", name, err)
	}
	F, err := ff.Load(bytes.NewReader(data), opts)
	if err != nil {
		return nil, nb.Decorate(err, "store.Get")
	}
	return F, nil
}

//Delete removes the checkpoint stored under name. Deleting a checkpoint that doesn't exist is not an error.
func (S *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store.Delete: %w", err)
	}
	err := S.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(dataPrefix + name)); err != nil {
			return err
		}
		return txn.Delete([]byte(infoPrefix + name))
	})
	if err != nil {
		return fmt.Errorf("store.Delete: %s: %w", name, err)
	}
	return nil
}

//List returns the description of every stored checkpoint, sorted by name.
func (S *Store) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	prefix := []byte(infoPrefix)
	err := S.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			I, err := decodeInfo(data)
			if err != nil {
				S.log.Warn("skipping unreadable checkpoint description", "key", string(it.Item().Key()), "err", err)
				continue
			}
			infos = append(infos, I)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store.List: %w", err)
	}
	return infos, nil
}
