// Package inventory resolves the scene list into a typed stack: identifier
// parsing at fixed offsets, year-range validation, per-scene path layout,
// and the accepted-scene manifest shared with later stages.
//
// Types:
//   - SceneID (sensor, path, row, year, day-of-year decoded from the name)
//   - SceneFile (one list entry with its directory layout helpers)
//   - Stack (path/row, year range, scenes)
//   - Manifest / ManifestRow (input_stack.csv contents)
//
// Functions:
//   - ParseSceneID(name) → SceneID
//     Fixed-offset decode, e.g. LT50350322002237LGS01 → 035/032/2002/237.
//   - ReadSceneList(path) → []string
//     One entry per line, blank lines ignored, empty list is an error.
//   - Resolve(entries) → *Stack
//     Path/row from the first entry; min/max years; Validate.
//
// Split into scene.go, stack.go, manifest.go.
package inventory
