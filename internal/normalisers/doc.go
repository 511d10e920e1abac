// Package normalisers turns uploaded file bytes into canonical text.
//
// Extraction is split by file kind: plaintext decodes UTF-8, pdf pulls text
// out of every page. The text subpackage then canonicalises whitespace so
// the chunker sees the same shape regardless of where the text came from.
//
// Extractors are registered with a Registry at startup.
package normalisers
