// Package store owns the publishing state shown to users: the loaded
// categories and tutorials, their loaded flags, and an append-only error
// log.
//
// Mutating actions are fire-and-forget. Each one calls the publishing API on
// its own goroutine and, once the response arrives, applies exactly one local
// mutation or records one error. Subscribers observe every applied mutation
// in order. Wait blocks until outstanding actions have settled.
package store
