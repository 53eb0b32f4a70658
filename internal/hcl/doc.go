// Package hcl provides the HCL implementation of config.Loader. It parses the
// `ftd.hcl` package manifest with hclparse, decodes it with gohcl against an
// evaluation context exposing the process environment as `env`, and
// translates it into the format-agnostic config.Model.
package hcl
