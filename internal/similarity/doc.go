// Package similarity provides the string scorers used to match raw stream
// names against canonical channel names. All scorers report on a 0 to 100
// scale so acceptance thresholds stay comparable across metrics.
package similarity
