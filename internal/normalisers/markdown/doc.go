// Package markdown provides the Normaliser for .md and .markdown files.
package markdown
