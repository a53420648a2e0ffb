// Package detect locates signature positions on document pages.
//
// Detection runs in three stages. [Locator] scans page text from the last
// page toward the first for an anchor keyword ("Signature:", "Authorized
// by", localized variants) and reports the bounding box of the matching
// token. [SpaceSearch] finds a free rectangle of page space that avoids
// every word, line, and drawn rectangle, preferring positions near the
// anchor and away from the page center. [Planner] combines the two into
// placement policies:
//
//   - Generic: one placement per page whose text matches an anchor pattern,
//     scanning last to first; when nothing matches anywhere, a single
//     low-confidence placement on the last page.
//   - F2F: exactly one placement, always on the last page, sized for the
//     audit box; when no free space exists the position comes from a
//     swappable [FallbackStrategy].
//
// All coordinates in this package are top-left origin (Y grows downward),
// matching [model.Rect]. Detection is read-only and idempotent: the same
// geometry always produces the same placements (the random F2F fallback is
// the documented exception, and can be replaced with [FixedFallback]).
package detect
