// Package wire implements the byte-level codec for the embedded trace
// stream: COBS frame delimiting and the little-endian varint encodings
// used for every event field.
package wire

import "fmt"

// DecodeCOBS removes zero-byte stuffing from a single frame (the bytes
// between two 0x00 delimiters, delimiters excluded) and returns the
// original payload. It mirrors the decode half of Consistent Overhead
// Byte Stuffing: the frame is a sequence of length-prefixed runs, each
// run's separator restored as a literal 0x00 except for the last run.
func DecodeCOBS(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty COBS frame")
	}

	out := make([]byte, 0, len(frame))
	i := 0
	for i < len(frame) {
		code := int(frame[i])
		if code == 0 {
			return nil, fmt.Errorf("unexpected zero byte at offset %d in COBS frame", i)
		}
		i++
		run := code - 1
		if i+run > len(frame) {
			return nil, fmt.Errorf("truncated COBS run at offset %d (need %d bytes, have %d)", i, run, len(frame)-i)
		}
		out = append(out, frame[i:i+run]...)
		i += run
		if code != 0xFF && i < len(frame) {
			out = append(out, 0x00)
		}
	}
	return out, nil
}

// EncodeCOBS stuffs an arbitrary payload (0x00 bytes included; they
// are restored by DecodeCOBS) into a COBS frame that contains no 0x00
// byte, without the trailing 0x00 terminator; callers append that
// themselves when writing to a stream.
func EncodeCOBS(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+len(payload)/254+1)
	codeIdx := len(out)
	out = append(out, 0) // placeholder
	code := byte(1)

	for _, b := range payload {
		if b == 0 {
			out[codeIdx] = code
			codeIdx = len(out)
			out = append(out, 0)
			code = 1
			continue
		}
		out = append(out, b)
		code++
		if code == 0xFF {
			out[codeIdx] = code
			codeIdx = len(out)
			out = append(out, 0)
			code = 1
		}
	}
	out[codeIdx] = code
	return out
}
