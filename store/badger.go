package store

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/lib"
	"github.com/rem1niscence/smt/smt"
)

const (
	branchPrefix byte = 'b'
	leafPrefix   byte = 'l'
)

// BadgerStore is a disk-backed smt.Store. Branches are keyed by prefix ‖ height ‖ node hash, leaves
// by prefix ‖ key, mirroring the length-prefixed key composition the teacher's stores build with
// lib.JoinLenPrefix.
type BadgerStore struct {
	db     *badger.DB
	logger lib.LoggerI
}

var _ smt.Store = (*BadgerStore)(nil)

// NewBadgerStore opens (creating if necessary) a badger database at cfg.DataDirPath/cfg.DBName, or
// a purely in-memory one when cfg.InMemory is set.
func NewBadgerStore(cfg lib.StoreConfig, l lib.LoggerI) (*BadgerStore, lib.ErrorI) {
	dir := cfg.DataDirPath + "/" + cfg.DBName
	if cfg.InMemory {
		// badger refuses to open in memory while a directory is set
		dir = ""
	}
	opts := badger.DefaultOptions(dir)
	opts = opts.WithInMemory(cfg.InMemory).WithLoggingLevel(badger.WARNING)
	if cfg.CacheSize > 0 {
		opts = opts.WithBlockCacheSize(int64(cfg.CacheSize))
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return &BadgerStore{db: db, logger: l}, nil
}

// Close flushes and closes the underlying database.
func (b *BadgerStore) Close() lib.ErrorI {
	if err := b.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

func branchKeyBytes(height int, node crypto.H256) []byte {
	return lib.JoinLenPrefix([]byte{branchPrefix}, []byte{byte(height)}, node.Bytes())
}

func leafKeyBytes(key crypto.H256) []byte {
	return lib.JoinLenPrefix([]byte{leafPrefix}, key.Bytes())
}

func (b *BadgerStore) GetBranch(height int, node crypto.H256) (lhs, rhs crypto.H256, found bool, err error) {
	k := branchKeyBytes(height, node)
	txErr := b.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get(k)
		if e == badger.ErrKeyNotFound {
			return nil
		}
		if e != nil {
			return e
		}
		found = true
		return item.Value(func(val []byte) error {
			lhs = crypto.BytesToH256(val[:crypto.HashSize])
			rhs = crypto.BytesToH256(val[crypto.HashSize:])
			return nil
		})
	})
	if txErr != nil {
		b.logger.Errorf("badger get branch failed: %s", txErr.Error())
		return crypto.ZeroH256, crypto.ZeroH256, false, txErr
	}
	return
}

func (b *BadgerStore) InsertBranch(height int, node crypto.H256, lhs, rhs crypto.H256) error {
	k := branchKeyBytes(height, node)
	v := append(lhs.Bytes(), rhs.Bytes()...)
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, v)
	})
}

func (b *BadgerStore) RemoveBranch(height int, node crypto.H256) error {
	k := branchKeyBytes(height, node)
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

func (b *BadgerStore) GetLeaf(key crypto.H256) (value crypto.H256, found bool, err error) {
	k := leafKeyBytes(key)
	txErr := b.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get(k)
		if e == badger.ErrKeyNotFound {
			return nil
		}
		if e != nil {
			return e
		}
		found = true
		return item.Value(func(val []byte) error {
			value = crypto.BytesToH256(val)
			return nil
		})
	})
	if txErr != nil {
		b.logger.Errorf("badger get leaf failed: %s", txErr.Error())
		return crypto.ZeroH256, false, txErr
	}
	return
}

func (b *BadgerStore) InsertLeaf(key, value crypto.H256) error {
	k := leafKeyBytes(key)
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, value.Bytes())
	})
}

func (b *BadgerStore) RemoveLeaf(key crypto.H256) error {
	k := leafKeyBytes(key)
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

// CheckProofSize rejects a compiled proof program that exceeds cfg.MaxProofSize. This is the store
// boundary the field's doc comment promises: callers accepting a proof program from outside the
// process (or about to hand one out) run it through here before the bytes reach the verifier.
func CheckProofSize(program []byte, cfg lib.StoreConfig) lib.ErrorI {
	max := int64(cfg.MaxProofSize)
	if max > 0 && int64(len(program)) > max {
		return ErrProofTooLarge(len(program), max)
	}
	return nil
}
