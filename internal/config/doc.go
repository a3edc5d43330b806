// SPDX-License-Identifier: MPL-2.0

// Package config defines the npmpack build configuration and loads it from
// an npmpack.{toml,yaml,json} file, NPMPACK_* environment variables, and
// flag overrides. A loaded configuration is validated against an embedded
// CUE schema before the build pipeline is allowed to run.
package config
