package tmdb

import "errors"

// ErrNotFound indicates the movie does not exist upstream
var ErrNotFound = errors.New("tmdb: not found")
