// Package csv provides the Normaliser for .csv files. The first record is
// the header; each later record becomes one "column: value" block.
package csv
