// Package normalisers turns source files into text documents. Each
// subpackage handles one domain.DocumentFormat; Registry dispatches to
// them by format and loads files from disk.
package normalisers
