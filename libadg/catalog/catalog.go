package catalog

import (
	"runtime"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/manybody/adg/adg"
	"github.com/manybody/adg/libadg"
	"github.com/pkg/errors"
)

/***

Catalog database format:

	gCatalogStateKey => MajorVers varint, MinorVers varint

	gResultPrefix, TheoryConfig.Key() => ResultRecord

	ResultRecord:
		Stats           5 x varint (Candidates, Admissible, Connected, Distinct, Elapsed ns)
		NumDiagrams     varint
		Diagram         ... NumDiagrams times

	Diagram:
		Adj             raw bytes (Matrix.AppendEncoding)
		Anom            raw bytes (Matrix.AppendEncoding)
		Category        varint
		NumTags         varint, followed by NumTags x Tag varint
		NumPerms        varint, followed by NumPerms x (Tag varint, Perm raw bytes)

Diagrams are stored in Result order, so a loaded Result needs no reclassification.

***/

const (
	MajorVers = 2026
	MinorVers = 1
)

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gResultPrefix    = []byte{0x01}
)

// Opts specifies where a Catalog lives.
type Opts struct {
	DbPathName string // if empty, the catalog is in-memory
	ReadOnly   bool
}

// Catalog stores generated results keyed by their TheoryConfig.
type Catalog struct {
	db       *badger.DB
	readOnly bool
}

// Open opens (or creates) a catalog.
func Open(opts Opts) (*Catalog, error) {
	cat := &Catalog{
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(adg.ErrCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	major, minor, err := cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		major, minor = MajorVers, MinorVers
		if !cat.readOnly {
			err = cat.storeState()
		}
	}
	if err == nil && (major != MajorVers || minor != MinorVers) {
		err = errors.Wrapf(adg.ErrCatalogVersion, "found %d.%d, expected %d.%d", major, minor, MajorVers, MinorVers)
	}
	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *Catalog) loadState() (major, minor uint64, err error) {
	err = cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			buf := proto.NewBuffer(val)
			if major, err = buf.DecodeVarint(); err != nil {
				return err
			}
			minor, err = buf.DecodeVarint()
			return err
		})
	})
	return
}

func (cat *Catalog) storeState() error {
	buf := proto.NewBuffer(nil)
	buf.EncodeVarint(MajorVers)
	buf.EncodeVarint(MinorVers)
	return cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, buf.Bytes())
	})
}

func (cat *Catalog) Close() error {
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
	}
	return nil
}

func (cat *Catalog) IsReadOnly() bool {
	return cat.readOnly
}

func resultKey(cfg adg.TheoryConfig) []byte {
	return append(append([]byte(nil), gResultPrefix...), cfg.Key()...)
}

// Store writes res, replacing any result already stored for res.Config.
func (cat *Catalog) Store(res *libadg.Result) error {
	if cat.readOnly {
		return errors.Wrap(adg.ErrCatalogParam, "catalog is read-only")
	}
	record := encodeResult(res)
	return cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(res.Config), record)
	})
}

// Load returns the stored result for cfg, or an error wrapping adg.ErrCatalogMiss.
func (cat *Catalog) Load(cfg adg.TheoryConfig) (*libadg.Result, error) {
	var res *libadg.Result
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(cfg))
		if err == badger.ErrKeyNotFound {
			return errors.Wrap(adg.ErrCatalogMiss, cfg.Key())
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			res, err = decodeResult(cfg, val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Keys returns the configuration keys of all stored results, sorted.
func (cat *Catalog) Keys() ([]string, error) {
	var keys []string
	err := cat.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.PrefetchValues = false
		itOpts.Prefix = gResultPrefix
		it := txn.NewIterator(itOpts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			keys = append(keys, string(key[len(gResultPrefix):]))
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}

func encodeResult(res *libadg.Result) []byte {
	buf := proto.NewBuffer(make([]byte, 0, 64+32*len(res.Diagrams)))

	stats := res.Stats
	buf.EncodeVarint(uint64(stats.Candidates))
	buf.EncodeVarint(uint64(stats.Admissible))
	buf.EncodeVarint(uint64(stats.Connected))
	buf.EncodeVarint(uint64(stats.Distinct))
	buf.EncodeVarint(uint64(stats.Elapsed))

	var scrap [1 + adg.MaxOrder*adg.MaxOrder]byte
	buf.EncodeVarint(uint64(len(res.Diagrams)))
	for _, D := range res.Diagrams {
		adj, anom := D.Matrix(), D.AnomalousMatrix()
		buf.EncodeRawBytes(adj.AppendEncoding(scrap[:0]))
		buf.EncodeRawBytes(anom.AppendEncoding(scrap[:0]))
		buf.EncodeVarint(uint64(D.Category))

		buf.EncodeVarint(uint64(len(D.Tags)))
		for _, tag := range D.Tags {
			buf.EncodeVarint(uint64(tag))
		}

		tags := make([]int, 0, len(D.Perms))
		for tag := range D.Perms {
			tags = append(tags, tag)
		}
		sort.Ints(tags)
		buf.EncodeVarint(uint64(len(tags)))
		for _, tag := range tags {
			buf.EncodeVarint(uint64(tag))
			perm := scrap[:0]
			for _, vi := range D.Perms[tag] {
				perm = append(perm, byte(vi))
			}
			buf.EncodeRawBytes(perm)
		}
	}
	return buf.Bytes()
}

// decoder accumulates the first error so record fields can be read in sequence.
type decoder struct {
	buf  *proto.Buffer
	size int
	err  error
}

func (dec *decoder) varint() int {
	if dec.err != nil {
		return 0
	}
	x, err := dec.buf.DecodeVarint()
	dec.err = err
	return int(x)
}

// count reads an element count, which cannot exceed the record size since every element
// occupies at least one byte.
func (dec *decoder) count() int {
	n := dec.varint()
	if dec.err == nil && (n < 0 || n > dec.size) {
		dec.err = errors.Errorf("element count %d exceeds record size %d", n, dec.size)
		n = 0
	}
	return n
}

func (dec *decoder) matrix() libadg.Matrix {
	var M libadg.Matrix
	if dec.err != nil {
		return M
	}
	raw, err := dec.buf.DecodeRawBytes(false)
	if err == nil {
		_, err = M.InitFromEncoding(raw)
	}
	dec.err = err
	return M
}

func (dec *decoder) bytes() []byte {
	if dec.err != nil {
		return nil
	}
	raw, err := dec.buf.DecodeRawBytes(true)
	dec.err = err
	return raw
}

func decodeResult(cfg adg.TheoryConfig, record []byte) (*libadg.Result, error) {
	dec := decoder{
		buf:  proto.NewBuffer(record),
		size: len(record),
	}

	var stats libadg.Stats
	stats.Candidates = dec.varint()
	stats.Admissible = dec.varint()
	stats.Connected = dec.varint()
	stats.Distinct = dec.varint()
	stats.Elapsed = time.Duration(dec.varint())

	numDiagrams := dec.count()
	diagrams := make([]*libadg.Diagram, 0, numDiagrams)
	for i := 0; i < numDiagrams && dec.err == nil; i++ {
		C := libadg.Candidate{
			Adj:  dec.matrix(),
			Anom: dec.matrix(),
		}
		category := adg.Category(dec.varint())

		tags := make([]int, dec.count())
		for k := range tags {
			tags[k] = dec.varint()
		}

		var perms map[int][]int
		if numPerms := dec.count(); numPerms > 0 {
			perms = make(map[int][]int, numPerms)
			for k := 0; k < numPerms; k++ {
				tag := dec.varint()
				raw := dec.bytes()
				perm := make([]int, len(raw))
				for vi, b := range raw {
					perm[vi] = int(b)
				}
				perms[tag] = perm
			}
		}
		if dec.err != nil || len(tags) == 0 {
			break
		}

		C.Tag = tags[0]
		D := libadg.NewDiagram(cfg, &C)
		D.Tags = tags
		D.Perms = perms
		D.Category = category
		diagrams = append(diagrams, D)
	}
	if dec.err == nil && len(diagrams) != numDiagrams {
		dec.err = errors.New("diagram record missing tags")
	}
	if dec.err != nil {
		return nil, errors.Wrapf(dec.err, "decoding catalog record %q", cfg.Key())
	}

	return libadg.Restore(cfg, diagrams, stats), nil
}
