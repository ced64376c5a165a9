// Package encryption provides the block ciphers and the chunked CBC engine used for container payloads.
//
// Ciphers are selected by Algorithm and described by a Provider, which knows the key and block sizes
// and creates PKCS#7-padded CBC transforms. The Engine feeds a source stream through a transform in
// chunks and guarantees the transform is released on every path, including aborted ones.
package encryption
