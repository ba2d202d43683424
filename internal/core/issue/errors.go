// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-12

package issue

import "errors"

// Error classes. Adapters wrap their failures with one of these so callers
// can tell fatal setup errors from per-issue ones with errors.Is.
var (
	// ErrAuth means credentials were missing or rejected. Fatal.
	ErrAuth = errors.New("authentication failed")
	// ErrFetch means listing issues from a tracker failed. Fatal.
	ErrFetch = errors.New("fetch failed")
	// ErrCreate means creating a destination issue failed. Per-issue.
	ErrCreate = errors.New("create failed")
	// ErrUpdate means changing a destination issue's state failed. Per-issue.
	ErrUpdate = errors.New("update failed")
	// ErrConstruction means a source record or index could not be built. Fatal.
	ErrConstruction = errors.New("malformed record")
)

// IsFatal reports whether err aborts a run instead of being attributed to a
// single issue.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrCreate) && !errors.Is(err, ErrUpdate)
}
