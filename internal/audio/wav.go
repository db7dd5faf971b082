package audio

import (
	"bytes"
	"encoding/binary"
)

// encodeWAV wraps raw 16-bit little-endian PCM samples in a RIFF/WAVE
// container.
func encodeWAV(pcm []byte, sampleRate int, channels int) []byte {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}

	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var out bytes.Buffer
	out.Grow(44 + len(pcm))

	out.WriteString("RIFF")
	writeUint32(&out, uint32(36+len(pcm)))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	writeUint32(&out, 16)
	writeUint16(&out, 1) // PCM
	writeUint16(&out, uint16(channels))
	writeUint32(&out, uint32(sampleRate))
	writeUint32(&out, uint32(byteRate))
	writeUint16(&out, uint16(blockAlign))
	writeUint16(&out, bitsPerSample)

	out.WriteString("data")
	writeUint32(&out, uint32(len(pcm)))
	out.Write(pcm)

	return out.Bytes()
}

func writeUint32(out *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	out.Write(b[:])
}

func writeUint16(out *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	out.Write(b[:])
}
