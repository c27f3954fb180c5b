// Package docx provides the Normaliser for Word .docx files.
package docx
