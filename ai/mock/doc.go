// Package mock provides deterministic test doubles for the ai package.
//
// The mock embedder produces the same unit vector for the same input
// text, so similarity assertions are stable across runs without any
// external service.
package mock
