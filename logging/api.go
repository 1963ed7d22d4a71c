// Package logging implements the diagnostic reporter consumed by the
// lexer and driver layers: fatal errors, promotable/suppressible
// warnings, and the colored terminal output they're displayed with.
package logging
