// Package file provides the TOML-backed ConfigStore.
//
// Keys are addressed with dots ("embedding.provider") and written back as
// TOML tables, so a saved file reads:
//
//	data_dir = "./data/colleges"
//
//	[embedding]
//	provider = "ollama"
//	model = "nomic-embed-text"
package file
