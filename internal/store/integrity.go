package store

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/nukrstore/nukr-backend/pkg/enums"
)

// Outcome reports what the integrity check had to do to produce a usable
// document.
type Outcome string

const (
	// OutcomeOK means the document was complete; nothing changed.
	OutcomeOK Outcome = "ok"
	// OutcomeInitialized means no document existed; a default was seeded.
	OutcomeInitialized Outcome = "initialized"
	// OutcomeMigrated means missing keys or entity fields were patched in.
	// The caller should persist the returned document.
	OutcomeMigrated Outcome = "migrated"
	// OutcomeCorrupted means the raw bytes were unreadable. Doc is nil and
	// the caller must run recovery.
	OutcomeCorrupted Outcome = "corrupted"
)

// CheckResult carries the repaired document and what happened to it.
type CheckResult struct {
	Doc       *Document
	Outcome   Outcome
	AddedKeys []string
}

var topLevelKeys = []string{"meta", "vendors", "products", "orders", "categories", "users"}

// Check validates raw persisted bytes against the schema, additively patching
// whatever is missing. It never produces a structurally invalid document:
// empty input seeds a default store, and undecodable input reports corruption
// so the caller can restore a backup. Existing keys are never removed or
// overwritten.
func Check(raw []byte, now time.Time) CheckResult {
	if len(bytes.TrimSpace(raw)) == 0 {
		return CheckResult{Doc: DefaultDocument(now), Outcome: OutcomeInitialized}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return CheckResult{Outcome: OutcomeCorrupted}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Parseable JSON with the wrong shape is corruption too; a document
		// whose collections cannot decode is not repairable additively.
		return CheckResult{Outcome: OutcomeCorrupted}
	}

	var added []string
	for _, key := range topLevelKeys {
		if _, present := top[key]; !present {
			added = append(added, key)
		}
	}

	patched := patchDefaults(&doc, now, added)

	outcome := OutcomeOK
	if len(added) > 0 || patched {
		outcome = OutcomeMigrated
	}
	return CheckResult{Doc: &doc, Outcome: outcome, AddedKeys: added}
}

// patchDefaults fills zero-valued fields the way the default schema would.
// Returns true when anything beyond the already-recorded missing keys changed.
func patchDefaults(doc *Document, now time.Time, addedKeys []string) bool {
	patched := false
	addedSet := map[string]bool{}
	for _, key := range addedKeys {
		addedSet[key] = true
	}

	if doc.Meta.CreatedAt.IsZero() {
		doc.Meta.CreatedAt = now
		patched = patched || !addedSet["meta"]
	}
	if doc.Meta.Version == "" {
		doc.Meta.Version = SchemaVersion
		patched = patched || !addedSet["meta"]
	}

	if doc.Vendors == nil {
		doc.Vendors = []Vendor{}
	}
	if doc.Products == nil {
		doc.Products = []Product{}
	}
	if doc.Orders == nil {
		doc.Orders = []Order{}
	}
	if doc.Users == nil {
		doc.Users = []User{}
	}
	if doc.Categories == nil {
		doc.Categories = make([]string, len(DefaultCategories))
		copy(doc.Categories, DefaultCategories)
	}

	for i := range doc.Vendors {
		if doc.Vendors[i].Status == "" {
			doc.Vendors[i].Status = enums.VendorStatusActive
			patched = true
		}
	}
	for i := range doc.Products {
		if doc.Products[i].Lifecycle == "" {
			doc.Products[i].Lifecycle = enums.ProductLifecycleActive
			patched = true
		}
	}
	for i := range doc.Orders {
		if doc.Orders[i].Status == "" {
			doc.Orders[i].Status = enums.OrderStatusPending
			patched = true
		}
		if doc.Orders[i].History == nil {
			doc.Orders[i].History = []string{}
			patched = true
		}
	}

	return patched
}
