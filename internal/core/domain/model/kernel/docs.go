// Package kernel contains shared value objects used across domain aggregates:
// UUID identifiers and geographic points with great-circle distance. Value
// objects are immutable and must be created through their constructors; zero
// values fail validation.
package kernel
