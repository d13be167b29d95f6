package nmea

// Framer reassembles sentences from byte chunks.
//
// The pending line survives between Push calls, so a sentence split across
// reads is emitted once its '\n' arrives. The zero value is ready to use.
type Framer struct {
	// buf never holds '\r' or '\n'.
	buf []byte
}

func NewFramer() *Framer {
	return &Framer{buf: make([]byte, 0, 128)}
}

// Push consumes chunk and returns the sentences it completed, in order.
//
// Bytes are taken as 8-bit characters; NMEA is ASCII, so no multi-byte
// decoding happens and a chunk boundary can never split a character. '\r' is
// dropped, '\n' ends the line. Lines that are empty after trimming are not
// returned. Push keeps no reference to chunk.
func (f *Framer) Push(chunk []byte) []string {
	var out []string
	for _, c := range chunk {
		switch c {
		case '\n':
			line := trimLine(f.buf)
			f.buf = f.buf[:0]
			if len(line) > 0 {
				out = append(out, string(line))
			}
		case '\r':
		default:
			f.buf = append(f.buf, c)
		}
	}
	return out
}

// Pending returns the number of buffered bytes of the unterminated line.
func (f *Framer) Pending() int {
	return len(f.buf)
}

// Reset discards the unterminated line.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}

// trimLine strips ASCII whitespace and control characters from both ends.
func trimLine(b []byte) []byte {
	start := 0
	for start < len(b) && b[start] <= ' ' {
		start++
	}
	end := len(b)
	for end > start && b[end-1] <= ' ' {
		end--
	}
	return b[start:end]
}
