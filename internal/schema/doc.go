// Package schema checks scene documents against the strict CUE schema in
// lusid.cue.
//
// Unlike the parser, validation never repairs anything: every deviation is
// reported as a ValidationError with an E3xx code and, where CUE can place
// it, a line number. A document that validates cleanly parses with no
// diagnostics other than those about ordering and duplicates, which the
// schema also reports.
package schema
