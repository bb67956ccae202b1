package domain

import "errors"

var ErrNotFound = errors.New("not found")
var ErrInvalidRecord = errors.New("invalid movie record")
