// Package sanitizer normalises user input before it is compared or stored.
//
// Transforms are plain func(string) string values and can be chained with
// Apply or stored as a pipeline with Compose:
//
//	cleanName := sanitizer.Compose(sanitizer.StripHTML, sanitizer.NormalizeWhitespace)
//	name := cleanName(input.FullName)
//
// HTML stripping is backed by bluemonday's strict policy, so the output never
// contains markup regardless of how the input was encoded.
package sanitizer
