// SPDX-License-Identifier: MPL-2.0

// Package builder implements the npmpack build pipeline: it stages
// TypeScript sources into the output directory, copies root assets,
// rewrites .ts import specifiers to .js, generates tsconfig.json and
// package.json, shells out to npm / jsr / tsc, and removes the
// intermediates, leaving a publishable npm package behind.
//
// The pipeline is strictly sequential. Each stage reads what the previous
// stage left on disk; there is no retry and any failure (other than a
// missing optional root asset) aborts the build.
package builder
