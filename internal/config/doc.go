// Package config defines the format-agnostic settings model for cargo-px,
// along with the Loader interface used to read it from disk.
//
// Settings are optional: without a settings file every field keeps its
// default. Concrete loaders, such as the HCL one, live in separate packages.
package config
