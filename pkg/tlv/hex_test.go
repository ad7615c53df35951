package tlv

import (
	"bytes"
	"testing"
)

func TestHex(t *testing.T) {
	if got := Hex("6F 1A", "84 07", "a0000000041010"); Spaced(got) != "6F 1A 84 07 A0 00 00 00 04 10 10" {
		t.Errorf("Hex() = %X", got)
	}

	for _, bad := range []string{"ZZ", "9F0", "5F 2"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Hex(%q) did not panic", bad)
				}
			}()
			Hex(bad)
		}()
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "Compact", input: "6F04A0000003", want: []byte{0x6F, 0x04, 0xA0, 0x00, 0x00, 0x03}},
		{name: "Spaced Lowercase", input: "50 04 56 49 53 41", want: []byte{0x50, 0x04, 0x56, 0x49, 0x53, 0x41}},
		{name: "Colons", input: "90:00", want: []byte{0x90, 0x00}},
		{name: "Empty", input: "", want: []byte{}},
		{name: "Invalid", input: "ZZ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("ParseHex() = %X, want %X", got, tt.want)
			}
		})
	}
}

func TestSpacedAndUpper(t *testing.T) {
	data := []byte{0x6f, 0x04, 0xa0, 0x00}

	if got := Spaced(data); got != "6F 04 A0 00" {
		t.Errorf("Spaced() = %q", got)
	}
	if got := Spaced(nil); got != "" {
		t.Errorf("Spaced(nil) = %q, want empty", got)
	}
	if got := Upper(data); got != "6F04A000" {
		t.Errorf("Upper() = %q", got)
	}
}

func TestMakeSafeASCII(t *testing.T) {
	input := []byte{0x41, 0x42, 0x00, 0x1F, 0x7F, 0x43} // AB, null, US, DEL, C
	want := "AB...C"                                    // 0x7F (127) is > 126, so it becomes dot

	if got := MakeSafeASCII(input); got != want {
		t.Errorf("MakeSafeASCII() = %q, want %q", got, want)
	}
}
