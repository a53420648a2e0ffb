// Package asset prepares signature images for compositing and manages
// their storage.
//
// Preparation turns an uploaded scan or photo into overlay-ready artwork:
// near-white background pixels become transparent, the transparent margin
// is trimmed away, and the result is scaled down to the overlay size limit.
// Storage is an encrypted vault keyed by signer: assets are sealed with
// AES-256-GCM under a passphrase-derived key and carry a content digest
// that is verified on every load.
package asset
