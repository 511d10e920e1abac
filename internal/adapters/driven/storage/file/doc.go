// Package file provides filesystem-backed stores: the embedded-identity
// set and the upload directory.
package file
