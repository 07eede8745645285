// Package errors provides structured, coded errors for vpatch.
//
// Every error carries a registered code (e.g. "E101") that maps to a
// category, a short message and a longer explanation. Errors are built
// fluently and wrap their cause so errors.Is and errors.As keep working:
//
//	err := errors.New("E101").
//	    WithDetail("thunk at position 4 rendered <nil>").
//	    Wrap(vdom.ErrInvalidThunk)
//
// Format renders the error for a terminal, FormatCompact for a single log
// line.
package errors
