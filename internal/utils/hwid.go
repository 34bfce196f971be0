package utils

import "github.com/denisbrodbeck/machineid"

// HWID is a privacy-preserving device identifier, stable across restarts.
var HWID = resolveHWID()

func resolveHWID() string {
	id, err := machineid.ProtectedID("syncstash")
	if err != nil {
		return "unknown"
	}
	return id
}
