// Package internal holds build information shared by the executables.
package internal

// Version is the release of the registry client.
const Version = "0.2.0"
