// Package textutil provides the normalization helpers shared by the tracker
// and the per-job file layout.
//
// The primary use cases are:
//   - Deriving folder-safe company slugs and canonical YYYY-MM-DD dates from
//     tracker cells
//   - Parsing looser report dates and timestamp prefixes
//   - Building document base names and bounded excerpts for prompts and logs
//   - Sanitizing filenames for safe filesystem use
package textutil
