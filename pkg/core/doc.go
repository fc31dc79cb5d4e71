// Package core defines the shared language of trigdata.
//
// This package contains:
//   - The closed set of record kinds and their block-parameter whitelists
//   - Record types (Category, the Function family, Type, TypeDefault, Unknown)
//   - The block-parameter map and its value types
//   - The error taxonomy shared by the parser, loader and registry
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
