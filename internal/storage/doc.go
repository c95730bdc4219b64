// Package storage implements the persistence layer on bolthold. It records
// which stream was last published for each canonical channel, so a channel
// missing from one fetch can be bridged from its previous sighting.
package storage
