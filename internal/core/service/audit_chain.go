package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/lexhaven/matters-api/internal/core/domain"
	"github.com/lexhaven/matters-api/internal/core/ports"
)

// AuditChain owns the process-wide audit chain state: the signing key and the
// hash of the most recently emitted entry. Appending is a single critical
// section so that head-read, hash computation, head advance and emission are
// atomic with respect to concurrent requests; two requests can never stamp
// the same previousHash or emit out of chain order.
type AuditChain struct {
	mu   sync.Mutex
	head string

	key  []byte
	sink ports.AuditSink
	log  zerolog.Logger
}

// NewAuditChain creates a chain with an empty head (process start anchor).
func NewAuditChain(secret []byte, sink ports.AuditSink, log zerolog.Logger) *AuditChain {
	key := secret
	if len(key) > 64 {
		// BLAKE2b keys are capped at 64 bytes.
		sum := sha256.Sum256(key)
		key = sum[:]
	}
	return &AuditChain{key: key, sink: sink, log: log}
}

// Append links the entry to the chain, signs it and emits it. The entry's
// PreviousHash and Hash fields are overwritten.
func (c *AuditChain) Append(entry *domain.AuditLogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.PreviousHash = c.head
	h, err := c.computeHash(entry)
	if err != nil {
		return fmt.Errorf("audit chain: compute hash: %w", err)
	}
	entry.Hash = h
	c.head = h

	// Emission stays inside the critical section so sink order matches chain
	// order.
	c.sink.Emit(entry)
	return nil
}

// Head returns the current chain head hash.
func (c *AuditChain) Head() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head
}

// Verify recomputes the entry's keyed hash from every field except Hash and
// compares it to the stored value. Pure and deterministic.
func (c *AuditChain) Verify(entry *domain.AuditLogEntry) bool {
	h, err := c.computeHash(entry)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(h), []byte(entry.Hash))
}

// VerifyChain checks every entry's own hash plus the previousHash linkage
// between consecutive entries. Returns (-1, true) for an intact sequence, or
// the index of the first entry at which tampering or reordering is detectable.
func (c *AuditChain) VerifyChain(entries []domain.AuditLogEntry) (int, bool) {
	for i := range entries {
		if !c.Verify(&entries[i]) {
			return i, false
		}
		if i > 0 && entries[i].PreviousHash != entries[i-1].Hash {
			return i, false
		}
	}
	return -1, true
}

// computeHash serializes the entry canonically with Hash cleared and applies
// the keyed BLAKE2b-256. Struct field order is fixed by declaration and
// encoding/json sorts map keys, so the serialization is reproducible.
func (c *AuditChain) computeHash(entry *domain.AuditLogEntry) (string, error) {
	unsigned := *entry
	unsigned.Hash = ""

	payload, err := json.Marshal(&unsigned)
	if err != nil {
		return "", err
	}

	mac, err := blake2b.New256(c.key)
	if err != nil {
		return "", err
	}
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
