//go:build cgo

package speech

import "github.com/visvasity/webrtcvad"

type vadClassifier struct {
	vad *webrtcvad.VAD
}

// NewVAD constructs a WebRTC VAD classifier. Modes run 0 (lenient) through
// 3 (aggressive).
func NewVAD(mode int) (Classifier, error) {
	vad, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := vad.SetMode(mode); err != nil {
		return nil, err
	}
	return &vadClassifier{vad: vad}, nil
}

func (v *vadClassifier) IsSpeech(sampleRate int, frame []byte) (bool, error) {
	return v.vad.Process(sampleRate, frame)
}
