// Package entity defines the core data model of the validation harness:
// entity kinds, exported objects as read from storage, the typed instance
// and builder contracts implemented by kind plugins, and the stage-classified
// error taxonomy shared by the registry, schema store and pipeline.
package entity
