// Package logger provides a structured logging facility based on Zap.
//
// It supports console encoding for interactive CLI use and JSON encoding for
// scheduled runs. The WithRunID helper tags a logger with a unique run
// identifier so that log lines from overlapping or back-to-back sync passes
// can be correlated.
package logger
