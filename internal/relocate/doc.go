// Package relocate moves classified backup files into the output tree.
//
// The Driver resolves each entry's destination through a layout.Resolver,
// finds the stored file through a Locator, and applies the live photo
// policy: paired camera roll stills and videos can be grouped in a ".pvt"
// wrapper directory, kept standalone, or both. Every entry ends with exactly
// one record in the Report (an Outcome, a NotFoundRecord, or a Failure), so
// per-entry problems never stop a run.
package relocate
