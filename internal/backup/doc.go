// Package backup indexes the stored files of a device backup. Backups keep
// each file under its manifest identifier inside a hashed bucket directory;
// Walk maps every identifier to the directory that holds it.
package backup
