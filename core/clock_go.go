//go:build !tinygo

package core

var systemTime uint64

func loadSystemTime() uint64 {
	return systemTime
}

func storeSystemTime(us uint64) {
	systemTime = us
}
