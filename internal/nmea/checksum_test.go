package nmea

import (
	"errors"
	"strings"
	"testing"
)

func TestChecksum_XOROfBody(t *testing.T) {
	if got := Checksum("GPGGA,1,2,3"); got != "4A" {
		t.Fatalf("Checksum=%q want %q", got, "4A")
	}
	// Single hex digit results are zero padded.
	if got := Checksum("A"); got != "41" {
		t.Fatalf("Checksum=%q want %q", got, "41")
	}
	if got := Checksum("AB"); got != "03" {
		t.Fatalf("Checksum=%q want %q", got, "03")
	}
	if got := Checksum(""); got != "00" {
		t.Fatalf("Checksum=%q want %q", got, "00")
	}
}

func TestValidChecksum_FlippedCharacterRejected(t *testing.T) {
	good := "$GPGGA,1,2,3*" + Checksum("GPGGA,1,2,3")
	if !ValidChecksum(good) {
		t.Fatalf("expected %q valid", good)
	}
	star := strings.IndexByte(good, '*')
	for i := star + 1; i < len(good); i++ {
		b := []byte(good)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		if ValidChecksum(string(b)) {
			t.Fatalf("expected %q invalid", string(b))
		}
	}
}

func TestValidChecksum_Policy(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{name: "Classic", in: classicGGA, want: true},
		{name: "NoChecksumAccepted", in: "$GPGGA,1,2,3", want: true},
		{name: "EmptyChecksum", in: "$GPGGA,1,2,3*", want: false},
		{name: "OneDigit", in: "$GPGGA,1,2,3*4", want: false},
		{name: "LowercaseRejected", in: "$GPGGA,1,2,3*4a", want: false},
		{name: "TrailingJunk", in: "$GPGGA,1,2,3*4AX", want: false},
		{name: "Mismatch", in: "$GPGGA,1,2,3*00", want: false},
		{name: "EmptyBody", in: "$*00", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidChecksum(tc.in); got != tc.want {
				t.Fatalf("ValidChecksum(%q)=%v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestChecksumError_Message(t *testing.T) {
	_, err := Decode("$GPGGA,1,2,3*00")
	var ce *ChecksumError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ChecksumError, got %v", err)
	}
	if ce.Sentence != "$GPGGA,1,2,3*00" || ce.Want != "4A" || ce.Got != "00" {
		t.Fatalf("unexpected error fields: %+v", ce)
	}
	if !strings.Contains(ce.Error(), "want=4A got=00") {
		t.Fatalf("error=%q", ce.Error())
	}

	_, err = Decode("$GPGGA,1,2,3*4")
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ChecksumError, got %v", err)
	}
	if !strings.Contains(ce.Error(), "short checksum") {
		t.Fatalf("error=%q", ce.Error())
	}
}
