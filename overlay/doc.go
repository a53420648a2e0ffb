// Package overlay renders signature artwork as PDF content stream
// operations and image XObjects.
//
// Placements arrive in top-left-origin page coordinates; rendering converts
// them to the PDF's bottom-left origin and clamps the result to the page so
// an overlay can never paint outside it. Two render modes exist: the
// standard mode paints the signature image with a short attestation text
// block beneath it, and the face-to-face audit mode paints a bordered audit
// box holding the attestation metadata and a signer-derived stamp glyph.
package overlay
