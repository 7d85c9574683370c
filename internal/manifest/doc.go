// Package manifest loads the backup manifest: the flat table mapping opaque
// storage identifiers to the relative paths the files had on the device.
//
// Locate finds the manifest database anywhere under the backup directory,
// Load reads it through modernc.org/sqlite, and Index keeps the rows in load
// order so every later stage sees entries in the same sequence.
package manifest
