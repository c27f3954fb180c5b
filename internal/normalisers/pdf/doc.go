// Package pdf provides the Normaliser for .pdf files, reading the text
// layer with github.com/ledongthuc/pdf.
package pdf
