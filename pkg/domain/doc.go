// Package domain contains the core domain entities used by the application.
// These types represent the business concepts (contact records, validation
// results and the valid/invalid partition) and are intentionally free of
// infrastructure concerns so they can be shared across packages.
package domain
