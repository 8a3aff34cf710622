//go:build !linux

package harness

import "errors"

func pinToCore(int) (int, error) {
	return 0, errors.New("thread pinning is not supported on this platform")
}
