// Package busarbiter serializes every transaction on the single serial
// channel. Arbiter exposes one scoped primitive, Transact, which opens the
// channel on demand, optionally overrides the read timeout for the
// duration of one request/response exchange, and guarantees the prior
// timeout is restored on every exit path including failure.
//
// A single mutex held for the whole exchange is both the mutual-exclusion
// discipline and the "pause the polling scheduler" effect described by the
// wire protocol: any other caller — the poller, discovery, or the command
// surface — blocks on entry until the transaction in flight completes.
// There is no cooperative yielding inside a transaction.
package busarbiter
