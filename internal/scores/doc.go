// Package scores loads whitespace-delimited score files.
//
// A score file starts with a header line naming its fields, followed by one
// record per line:
//
//	query   target   score
//	n1043   n2217    0.9512
//
// The score column is found by the header field "score" and falls back to
// the third field. Rows that are too short or hold a non-numeric score are
// skipped. Keyed loading additionally takes fields 0 and 1 as the query and
// target identifiers, and Match aligns two keyed files on their shared keys.
package scores
