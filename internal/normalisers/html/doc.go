// Package html provides the Normaliser for .html and .htm pages. It drops
// scripts, styles and other invisible elements, decodes entities and keeps
// one line of text per block element.
package html
