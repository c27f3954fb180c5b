// Package plaintext provides the Normaliser for .txt files and for text
// submitted directly without a file.
package plaintext
