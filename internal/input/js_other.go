//go:build !linux

package input

import "errors"

func init() {
	Register("js", func(string) (Device, error) {
		return nil, errors.New("input: js backend not supported on this platform (requires Linux)")
	})
}
