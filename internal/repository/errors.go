package repository

import "errors"

// ErrBusy is returned when a write kept hitting a locked database until
// its retry budget ran out. The caller may try again later.
var ErrBusy = errors.New("database busy")
