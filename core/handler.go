package core

// Handler framework. The source (original_source/src/datahub_processor/
// generic_handler.py, handler.py) factors a base class every concrete
// handler inherits: decode, fetch-and-decode, fetch-and-maybe-decode,
// emptiness check. Go has no base-class inheritance, so this is rebuilt as
// free functions operating on a *Context plus a small TransactionHandler
// interface each concrete handler implements — the "dynamic-typed
// polymorphic fetch → tagged variants" redesign spec.md §9 calls for.

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// TransactionHeader carries the fields the host decodes before dispatch
// (spec.md §6).
type TransactionHeader struct {
	SignerPublicKey string
	Inputs          []string
	Outputs         []string
	FamilyName      string
	FamilyVersion   string
}

// Transaction is one unit of work delivered by the host.
type Transaction struct {
	Header  TransactionHeader
	Payload []byte
}

// TransactionHandler is the contract every one of the six processors
// satisfies, and what a Processor (core/processor.go) dispatches to by
// FamilyName.
type TransactionHandler interface {
	FamilyName() string
	FamilyVersions() []string
	Namespaces() []string
	Apply(tx *Transaction, ctx *Context) error
}

// kind names a state record's variant, for fetchTyped's uniform error
// message ("does not contain a valid {Kind}").
type kind string

const (
	kindMeasurement kind = "Measurement"
	kindGGO         kind = "GGO"
	kindSettlement  kind = "Settlement"
)

// addressesNotEmpty reports whether any of addresses currently holds state
// (spec.md §4.3).
func addressesNotEmpty(ctx *Context, addresses ...string) (bool, error) {
	entries, err := ctx.Read(addresses)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// fetchMeasurement reads and decodes a Measurement at address, or raises the
// uniform not-found/malformed error.
func fetchMeasurement(ctx *Context, address string) (*Measurement, error) {
	var m Measurement
	if err := fetchTyped(ctx, kindMeasurement, address, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// fetchGGO reads and decodes a GGO at address, or raises the uniform
// not-found/malformed error.
func fetchGGO(ctx *Context, address string) (*GGO, error) {
	var g GGO
	if err := fetchTyped(ctx, kindGGO, address, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// tryFetchSettlement reads and decodes a Settlement at address, returning
// (nil, nil) if absent or malformed — the "maybe" variant spec.md §4.3
// describes as try_fetch_typed, used by Settlement's existing-vs-new branch.
func tryFetchSettlement(ctx *Context, address string) (*Settlement, error) {
	entries, err := ctx.Read([]string{address})
	if err != nil {
		return nil, err
	}
	data, ok := entries[address]
	if !ok {
		return nil, nil
	}
	var s Settlement
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

// fetchTyped is the shared "read + decode or fail uniformly" guard
// (spec.md §4.3).
func fetchTyped(ctx *Context, k kind, address string, out any) error {
	entries, err := ctx.Read([]string{address})
	if err != nil {
		return err
	}
	data, ok := entries[address]
	if !ok {
		return Invalid("Address %q does not contain a valid %s.", address, k)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return Invalid("Address %q does not contain a valid %s.", address, k)
	}
	return nil
}

// Apply runs handler.Apply(tx, ctx), converting any panic into an
// InternalError and logging the recovered cause — handlers themselves never
// need to guard against their own bugs crashing the host (spec.md §7).
func Apply(handler TransactionHandler, tx *Transaction, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic in %s: %v", handler.FamilyName(), r)
			log.WithField("family", handler.FamilyName()).Error(cause)
			err = Internalf(cause)
		}
	}()
	if err := handler.Apply(tx, ctx); err != nil {
		var inv *InvalidTransactionError
		if asInvalid(err, &inv) {
			return inv
		}
		log.WithField("family", handler.FamilyName()).Errorf("internal error: %v", err)
		return Internalf(err)
	}
	return nil
}

func asInvalid(err error, target **InvalidTransactionError) bool {
	if inv, ok := err.(*InvalidTransactionError); ok {
		*target = inv
		return true
	}
	return false
}
