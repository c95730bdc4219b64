// Package domain defines the core business entities and interfaces for
// chanarr.
//
// This package contains the lineup, stream, match and sighting models along
// with the source and repository interfaces that define the contract for
// feed access and persistence. All interfaces accept context for
// cancellation and timeout support.
package domain
