// Package analysis computes descriptive statistics and correlations over
// score sequences and records each plotting run as a Report.
package analysis
