package nmea

import (
	"fmt"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// Checksum returns the two-digit uppercase hex XOR of every byte in body.
func Checksum(body string) string {
	ck := byte(0)
	for i := 0; i < len(body); i++ {
		ck ^= body[i]
	}
	return string([]byte{hexDigits[ck>>4], hexDigits[ck&0x0F]})
}

// ValidChecksum reports whether sentence carries a matching checksum.
//
// Sentences without '*' are accepted as unchecksummed. The comparison is
// case-sensitive: receivers emit uppercase hex, and "*1a" does not match "1A".
func ValidChecksum(sentence string) bool {
	_, _, ok := checkChecksum(sentence)
	return ok
}

// checkChecksum returns the computed and received checksum text along with
// the verdict. want and got are empty for unchecksummed sentences.
func checkChecksum(sentence string) (want string, got string, ok bool) {
	star := strings.IndexByte(sentence, '*')
	if star == -1 {
		return "", "", true
	}
	start := 0
	if strings.HasPrefix(sentence, "$") {
		start = 1
	}
	if star < start {
		start = star
	}
	got = sentence[star+1:]
	want = Checksum(sentence[start:star])
	if len(got) < 2 {
		return want, got, false
	}
	return want, got, got == want
}

// ChecksumError reports a sentence whose checksum field failed validation.
// The sentence is never decoded.
type ChecksumError struct {
	Sentence string
	Want     string
	Got      string
}

func (e *ChecksumError) Error() string {
	if len(e.Got) < 2 {
		return fmt.Sprintf("nmea: short checksum %q in %q", e.Got, e.Sentence)
	}
	return fmt.Sprintf("nmea: checksum mismatch want=%s got=%s in %q", e.Want, e.Got, e.Sentence)
}
