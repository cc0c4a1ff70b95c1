// Package testutil provides testing utilities for memsnap.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for creating backing files and deterministic byte
// patterns, and for checking snapshot content.
//
// # Backing Files
//
//	f := testutil.OpenTempFile(t, []byte("content"))
//
// # Byte Patterns
//
//	buf := testutil.Pattern(n)      // deterministic, non-zero
//	ok := testutil.AllZero(view.Bytes())
package testutil
