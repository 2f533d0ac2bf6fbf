package resources

import "errors"

// ErrIconNotFound is returned when the embedded icon data is empty.
var ErrIconNotFound = errors.New("embedded icon not found")
