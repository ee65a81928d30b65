// Package types defines the hbnb model classes, the class registry, the
// Storage interface implemented by every backend, the backend Config, and the
// standard errors shared by the storage layer and the console.
//
// Models never talk to a backend on their own. Relationship accessors that
// need the full object set (a state's cities, a place's reviews) live in
// internal/storage as explicit queries against a Storage.
package types
