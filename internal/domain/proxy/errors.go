package proxy

import "errors"

var (
	ErrProxyNotFound  = errors.New("proxy not found")
	ErrInvalidRepoint = errors.New("invalid proxy repoint")
)
