package core

// Processor is the transaction-processor host: it registers the six
// handlers by family name and dispatches each incoming transaction to the
// one whose family matches, exactly the "registration surface" described in
// original_source/src/datahub_processor/main.py and spec.md §6. The actual
// wire protocol to the consensus/ordering substrate — batching, message
// framing, signature verification before a Transaction ever reaches here —
// is the out-of-scope external collaborator named in spec.md §1; Connect
// only proves reachability of that substrate the way the source's
// TransactionProcessor(url) constructor does, using the teacher's own
// net.Dial-based Dialer (core/connection_pool.go) rather than reaching for
// a P2P swarm stack (libp2p) or a generated service client (grpc) that this
// single-endpoint handshake does not need.

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Processor dispatches transactions to registered TransactionHandlers by
// family name. A Processor instance holds no per-transaction state: it is
// safe to reuse across consecutive, even concurrent, transactions
// (spec.md §5).
type Processor struct {
	mu       sync.RWMutex
	handlers map[string]TransactionHandler
	dialer   *Dialer

	Processed uint64
	Invalid   uint64
	Errored   uint64
}

// NewProcessor returns an empty Processor ready for handler registration.
func NewProcessor() *Processor {
	return &Processor{
		handlers: make(map[string]TransactionHandler),
		dialer:   NewDialer(5*time.Second, time.Second),
	}
}

// Register adds handler, keyed by its FamilyName. Registering two handlers
// under the same family name is a configuration error.
func (p *Processor) Register(handler TransactionHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.handlers[handler.FamilyName()]; exists {
		return fmt.Errorf("processor: handler for family %q already registered", handler.FamilyName())
	}
	p.handlers[handler.FamilyName()] = handler
	log.WithFields(log.Fields{
		"family":     handler.FamilyName(),
		"namespaces": handler.Namespaces(),
	}).Info("processor: registered handler")
	return nil
}

// Families lists every registered family name, for /status reporting.
func (p *Processor) Families() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.handlers))
	for name := range p.handlers {
		out = append(out, name)
	}
	return out
}

// endpointAddr strips a scheme (e.g. "tcp://") from a validator endpoint
// URL, returning a bare "host:port" suitable for net.Dial.
func endpointAddr(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(endpoint, "tcp://"), nil
	}
	return u.Host, nil
}

// Connect dials the validator endpoint, proving the substrate named by
// endpoint is reachable before Run begins serving. Callers that cannot
// connect must exit non-zero (spec.md §6).
func (p *Processor) Connect(ctx context.Context, endpoint string) error {
	addr, err := endpointAddr(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	conn, err := p.dialer.Dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("connect to validator %q: %w", endpoint, err)
	}
	return conn.Close()
}

// Dispatch looks up the handler for tx's family/version and applies it
// against ctx, accounting the outcome on the Processor's counters.
func (p *Processor) Dispatch(tx *Transaction, ctx *Context) error {
	p.mu.RLock()
	handler, ok := p.handlers[tx.Header.FamilyName]
	p.mu.RUnlock()
	if !ok {
		p.mu.Lock()
		p.Errored++
		p.mu.Unlock()
		return Internalf(fmt.Errorf("no handler registered for family %q", tx.Header.FamilyName))
	}

	supported := false
	for _, v := range handler.FamilyVersions() {
		if v == tx.Header.FamilyVersion {
			supported = true
			break
		}
	}
	if !supported {
		p.mu.Lock()
		p.Errored++
		p.mu.Unlock()
		return Internalf(fmt.Errorf("unsupported version %q for family %q", tx.Header.FamilyVersion, tx.Header.FamilyName))
	}

	correlationID := uuid.NewString()
	log.WithFields(log.Fields{"family": tx.Header.FamilyName, "correlation_id": correlationID}).Debug("processor: dispatching transaction")

	err := Apply(handler, tx, ctx)
	ObserveOutcome(tx.Header.FamilyName, err)

	p.mu.Lock()
	defer p.mu.Unlock()
	switch err.(type) {
	case nil:
		p.Processed++
	case *InvalidTransactionError:
		p.Invalid++
	default:
		p.Errored++
	}
	return err
}

// Run blocks serving transactions until ctx is cancelled. The external
// substrate's message loop is out of this module's scope (spec.md §1); Run
// represents the host's steady running state once registration and
// connection have both succeeded, returning nil on clean cancellation.
func (p *Processor) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
