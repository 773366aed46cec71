package report

import (
	"errors"
)

var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotConfigured = errors.New("upstream api not configured")
	ErrUpstream      = errors.New("upstream api failed")
)

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsErrNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func IsErrUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
