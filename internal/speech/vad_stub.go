//go:build !cgo

package speech

import "errors"

// NewVAD reports that the WebRTC classifier needs cgo.
func NewVAD(mode int) (Classifier, error) {
	return nil, errors.New("webrtcvad unavailable (cgo disabled)")
}
