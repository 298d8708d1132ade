package repository

import "errors"

var ErrNotFound = errors.New("requested document not found")
