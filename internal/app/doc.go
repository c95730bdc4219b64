// Package app wires configuration, storage, clients, and services into a
// runnable curation pipeline.
package app
