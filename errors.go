package flogger

import "errors"

var (
	errBackendRequired   = errors.New("flogger: Build requires WithBackend")
	errNoBackendRegistry = errors.New("flogger: no backend registry configured; use the platform package or WithBackend directly")
)
