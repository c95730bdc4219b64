// Package service holds the curation pipeline. CuratorService drives a run
// end to end; the smaller pieces it composes live alongside it: name
// replacements, logo lookup, channel enrichment, and sighting-based gap
// recovery.
package service
