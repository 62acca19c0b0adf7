package build

import "errors"

// Sentinel errors for build-fatal stages. They are wrapped in classified
// errors carrying the offending path.
var (
	ErrPrepare   = errors.New("moxide: prepare output error")
	ErrDiscovery = errors.New("moxide: discovery error")
)
