// Package calculator holds the pure sub-calculators of the tax engine. Every
// function is a deterministic function of its arguments and the tax-year table
// it is given; nothing here keeps state or performs I/O.
package calculator
