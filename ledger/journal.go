package ledger

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/veriledger/registry-attestation-backend/interfaces"
)

// Record is one journal entry. Digest commits to the previous record's
// digest, the event name, and the event payload, so any rewrite of history
// invalidates every later record.
type Record struct {
	Sequence uint64           `json:"sequence"`
	Time     time.Time        `json:"time"`
	Name     string           `json:"name"`
	Payload  json.RawMessage  `json:"payload"`
	Digest   common.Hash      `json:"digest"`
	Event    interfaces.Event `json:"-"`
}

// Journal is the append-only event log shared by all engines. Appends are
// strictly ordered; records are never mutated or removed.
type Journal struct {
	mu      sync.RWMutex
	records []Record
	head    common.Hash
}

// NewJournal creates an empty journal with a zero head digest.
func NewJournal() *Journal {
	return &Journal{}
}

// Append records an event at the given transition time and returns the
// stored record. Events must marshal to JSON; the marshaled payload is what
// the digest commits to.
func (j *Journal) Append(now time.Time, ev interfaces.Event) Record {
	payload, err := json.Marshal(ev)
	if err != nil {
		// Event types are plain structs defined in interfaces; a marshal
		// failure is a programming error, not a runtime condition.
		panic(fmt.Sprintf("journal: unmarshalable event %s: %v", ev.EventName(), err))
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	rec := Record{
		Sequence: uint64(len(j.records)),
		Time:     now,
		Name:     ev.EventName(),
		Payload:  payload,
		Digest:   chainDigest(j.head, ev.EventName(), payload),
		Event:    ev,
	}
	j.records = append(j.records, rec)
	j.head = rec.Digest
	return rec
}

// Len returns the number of records appended so far.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}

// Head returns the digest of the latest record, or the zero hash for an
// empty journal.
func (j *Journal) Head() common.Hash {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.head
}

// Records returns a copy of all records with sequence >= from.
func (j *Journal) Records(from uint64) []Record {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if from >= uint64(len(j.records)) {
		return nil
	}
	out := make([]Record, len(j.records)-int(from))
	copy(out, j.records[from:])
	return out
}

// ByName returns a copy of all records carrying the given event name, in
// append order.
func (j *Journal) ByName(name string) []Record {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []Record
	for _, rec := range j.records {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	return out
}

// Verify recomputes the digest chain from genesis and reports the first
// record whose stored digest does not match.
func (j *Journal) Verify() error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var head common.Hash
	for _, rec := range j.records {
		expected := chainDigest(head, rec.Name, rec.Payload)
		if rec.Digest != expected {
			return fmt.Errorf("journal: digest mismatch at sequence %d", rec.Sequence)
		}
		head = expected
	}
	return nil
}

func chainDigest(prev common.Hash, name string, payload []byte) common.Hash {
	return crypto.Keccak256Hash(prev.Bytes(), []byte(name), payload)
}
