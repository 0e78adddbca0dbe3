// Package parser reads LUSID scene documents.
//
// Parsing is tolerant: malformed frames and nodes are dropped with a
// Diagnostic rather than failing the whole document. Only a document whose
// top level is not an object, or whose frames field is not an array of
// objects, is rejected with a MalformedDocument error.
//
// Diagnostics are collected per call, so concurrent Parse calls never share
// state.
package parser
