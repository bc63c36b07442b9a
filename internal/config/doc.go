// Package config defines the format-agnostic model of a network definition
// file, along with the Loader interface that format adapters implement.
//
// A config.Model is the single input of the builder package. Concrete
// loaders for HCL and YAML live in separate packages.
package config
