package model

import "errors"

// ErrResourceUnavailable marks a missing or unloadable shared resource
// (reference table, name mapping, embedding index). Unlike per-recipe
// rejections, it is fatal to the whole batch.
var ErrResourceUnavailable = errors.New("resource unavailable")
