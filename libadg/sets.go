package libadg

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// MatrixSet allows adding of adjacency matrices to an internal set and returning if a given matrix has already been added.
type MatrixSet interface {

	// TryAdd adds the given matrix if it is not already present.
	//
	// If M already is in this MatrixSet, false is returned and this call has no effect.
	// If M isn't in this MatrixSet, a copy of M is added and true is returned.
	//
	// After one or more calls to TryAdd(), be sure to call Close() for cleanup.
	TryAdd(M *Matrix) bool

	// Len returns how many distinct matrices have been added since the last Close().
	Len() int

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAdd(), call Close() when you're done.
	Close()
}

func NewMatrixSet() MatrixSet {
	return &matrixSet{}
}

type matrixSet struct {
	lsmSet
	count int
}

func (ms *matrixSet) TryAdd(M *Matrix) bool {
	var buf [1 + adgCells]byte
	key := M.AppendEncoding(buf[:0])
	added := ms.tryAdd(key)
	if added {
		ms.count++
	}
	return added
}

func (ms *matrixSet) Len() int {
	return ms.count
}

func (ms *matrixSet) Close() {
	ms.lsmSet.Close()
	ms.count = 0
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(errors.Wrap(err, "opening in-memory matrix set"))
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
	}
	if err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(errors.Wrap(err, "matrix set"))
	}
	return true
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
