package utxoindex

import (
	"fmt"
	"sync"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/infrastructure/db/ldb"
	"github.com/pkg/errors"
)

// Resolver resolves an input's referenced previous output to the UTXO entry
// it spends. Resolution happens before the validation engine is invoked; the
// engine itself never performs this lookup.
type Resolver interface {
	Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error)
}

// PrevoutNotFoundError indicates a referenced previous output that the
// resolver doesn't know.
type PrevoutNotFoundError struct {
	Outpoint externalapi.DomainOutpoint
}

func (e PrevoutNotFoundError) Error() string {
	return fmt.Sprintf("previous output %s not found", e.Outpoint)
}

// NewErrPrevoutNotFound creates a new PrevoutNotFoundError with a stack trace
func NewErrPrevoutNotFound(outpoint *externalapi.DomainOutpoint) error {
	return errors.WithStack(PrevoutNotFoundError{Outpoint: *outpoint})
}

// PopulateTransaction fills the UTXO entry of every input of tx that doesn't
// already carry one, using the given resolver. It fails on the first
// unresolvable outpoint.
func PopulateTransaction(resolver Resolver, tx *externalapi.DomainTransaction) error {
	for _, input := range tx.Inputs {
		if input.UTXOEntry != nil {
			continue
		}
		entry, err := resolver.Get(&input.PreviousOutpoint)
		if err != nil {
			return err
		}
		input.UTXOEntry = entry
	}
	return nil
}

// Index is a persistent outpoint-to-UTXO-entry store backed by leveldb. It
// implements Resolver.
type Index struct {
	db *ldb.LevelDB
}

// Open opens the UTXO index under the given directory, creating it if it
// doesn't exist.
func Open(path string) (*Index, error) {
	db, err := ldb.NewLevelDB(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Opened UTXO index at %s", path)
	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (index *Index) Close() error {
	return index.db.Close()
}

// Put stores the UTXO entry for the given outpoint, overwriting any previous
// entry.
func (index *Index) Put(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) error {
	serializedEntry, err := serializeUTXOEntry(entry)
	if err != nil {
		return err
	}
	return index.db.Put(serializeOutpoint(outpoint), serializedEntry)
}

// Get returns the UTXO entry for the given outpoint, or a
// PrevoutNotFoundError if the index doesn't hold it.
func (index *Index) Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	serializedEntry, err := index.db.Get(serializeOutpoint(outpoint))
	if err != nil {
		return nil, err
	}
	if serializedEntry == nil {
		return nil, NewErrPrevoutNotFound(outpoint)
	}
	return deserializeUTXOEntry(serializedEntry)
}

// Delete removes the entry of a spent outpoint. Deleting an absent outpoint
// is not an error.
func (index *Index) Delete(outpoint *externalapi.DomainOutpoint) error {
	return index.db.Delete(serializeOutpoint(outpoint))
}

// InMemoryResolver is a Resolver over a plain map, safe for concurrent use.
// It serves tests and callers that carry their prevout data inline.
type InMemoryResolver struct {
	mutex   sync.RWMutex
	entries map[externalapi.DomainOutpoint]*externalapi.UTXOEntry
}

// NewInMemoryResolver returns an empty InMemoryResolver.
func NewInMemoryResolver() *InMemoryResolver {
	return &InMemoryResolver{
		entries: make(map[externalapi.DomainOutpoint]*externalapi.UTXOEntry),
	}
}

// Put stores the UTXO entry for the given outpoint.
func (r *InMemoryResolver) Put(outpoint *externalapi.DomainOutpoint, entry *externalapi.UTXOEntry) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entries[*outpoint] = entry
}

// Get returns the UTXO entry for the given outpoint, or a
// PrevoutNotFoundError if the resolver doesn't hold it.
func (r *InMemoryResolver) Get(outpoint *externalapi.DomainOutpoint) (*externalapi.UTXOEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	entry, ok := r.entries[*outpoint]
	if !ok {
		return nil, NewErrPrevoutNotFound(outpoint)
	}
	return entry, nil
}
