package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const purchaseBucket = "purchases"

// Gateway is the append-only boundary to the persisted ledger. ReadAll
// returns a full snapshot in insertion order; there is no pagination and
// no caching across calls. Existing rows are never updated or deleted.
type Gateway interface {
	// ReadAll returns every record in append order.
	ReadAll() ([]*PurchaseRecord, error)

	// Append adds one record at the end of the ledger.
	Append(record *PurchaseRecord) error

	// Close closes the underlying store.
	Close() error
}

// BoltLedger implements Gateway on BoltDB. Keys are the bucket's
// monotonically increasing sequence number encoded big-endian, so bucket
// iteration order is append order.
type BoltLedger struct {
	db *bbolt.DB
}

// NewBoltLedger opens (or creates) the ledger database at path.
func NewBoltLedger(path string) (*BoltLedger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(purchaseBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// Append adds a record at the end of the ledger.
func (b *BoltLedger) Append(record *PurchaseRecord) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(purchaseBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("allocating sequence: %w", err)
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return bucket.Put(key, data)
	})
}

// ReadAll returns every record in append order.
func (b *BoltLedger) ReadAll() ([]*PurchaseRecord, error) {
	records := make([]*PurchaseRecord, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(purchaseBucket))
		return bucket.ForEach(func(k, v []byte) error {
			var record PurchaseRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the database.
func (b *BoltLedger) Close() error {
	return b.db.Close()
}
