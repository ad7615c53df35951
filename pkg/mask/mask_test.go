package mask

import (
	"strings"
	"testing"
)

func TestPAN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"Shorter Than Four Digits", "123", "123"},
		{"Exactly Four Digits", "1234", "1234"},
		{"Five Digits", "12345", "X2345"},
		{"Sixteen Digit PAN", "4111111111111111", "XXXXXXXXXXXX1111"},
		{"Separated Groups Keep Short Runs", "4111 1111 1111 1111", "4111 1111 1111 1111"},
		{"Letters Interrupt Runs", "54133300DD89020001", "XXXX3300DDXXXX0001"},
		{"Non Digits Untouched", "ABCDEF", "ABCDEF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PAN(tt.input); got != tt.want {
				t.Errorf("PAN(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPAN_Properties(t *testing.T) {
	inputs := []string{
		"",
		"1",
		"1234",
		"5413330089020011",
		"4761739001010119D22122011143804400000F",
		"12=34567890",
	}

	for _, in := range inputs {
		got := PAN(in)

		if len(got) != len(in) {
			t.Errorf("PAN(%q) changed length: %d -> %d", in, len(in), len(got))
		}
		if len(in) >= 4 && got[len(got)-4:] != in[len(in)-4:] {
			t.Errorf("PAN(%q) = %q, last four characters changed", in, got)
		}
		if again := PAN(got); again != got {
			t.Errorf("PAN is not idempotent on %q: %q -> %q", in, got, again)
		}
	}
}

func TestTrack2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{
			name:  "Hex Encoded With D Separator",
			input: "4761739001010119D2212201",
			want:  "XXXXXXXXXXXX0119DXXX2201",
		},
		{
			name:  "Equals Separator",
			input: "4761739001010119=2212201",
			want:  "XXXXXXXXXXXX0119XXXX2201",
		},
		{"Short", "12=3", "12X3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Track2(tt.input)
			if got != tt.want {
				t.Errorf("Track2(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) != len(tt.input) {
				t.Errorf("Track2(%q) changed length", tt.input)
			}
		})
	}
}

func TestTrack2_MaskingOnceIsEnough(t *testing.T) {
	once := Track2("4761739001010119=22122011143804400000")
	if strings.Contains(once, "=") {
		t.Fatalf("separator left visible: %q", once)
	}
	if twice := Track2(once); twice != once {
		t.Errorf("Track2 re-masked its own output: %q -> %q", once, twice)
	}
}
