// Package services implements the driving port interfaces.
//
// Services hold the engine's orchestration logic and reach infrastructure
// only through driven ports:
//
//   - IngestService: load, chunk, embed and index documents per tenant
//   - RetrievalService: embed a query, search the tenant index, attach images
//   - ImageService: manage the images attached to a tenant
//   - SettingsService: read and write configuration, with env overrides
//
// Services are pure Go with no CGO or external dependencies.
package services
