package iso7816

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewClass(t *testing.T) {
	tests := []struct {
		name    string
		cla     byte
		want    Class
		wantErr bool
	}{
		{
			name: "Interindustry",
			cla:  CLAInterindustry,
			want: Class{Raw: 0x00},
		},
		{
			name: "EMV payment class",
			cla:  CLAPayment,
			want: Class{Raw: 0x80, IsProprietary: true},
		},
		{
			name: "First range, channel 3, chained, SM",
			cla:  0b0_0_0_1_11_11,
			want: Class{Raw: 0x1F, IsChained: true, SecureMessaging: 3, Channel: 3},
		},
		{
			name: "Further range, channel 19, SM",
			cla:  0b0_1_1_0_1111,
			want: Class{Raw: 0x6F, SecureMessaging: 1, Channel: 19},
		},
		{
			name:    "Reserved FF",
			cla:     0xFF,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClass(tt.cla)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClass(%02X) error = %v, wantErr %v", tt.cla, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NewClass(%02X) mismatch (-want +got):\n%s", tt.cla, diff)
			}
		})
	}
}

func TestClass_Encode(t *testing.T) {
	tests := []struct {
		name    string
		cla     byte
		chained bool
		want    byte
	}{
		{"Plain", 0x00, false, 0x00},
		{"Set chaining", 0x00, true, 0x10},
		{"Clear chaining", 0x10, false, 0x00},
		{"Payment class", 0x80, false, 0x80},
		{"Channel kept", 0x43, false, 0x43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustClass(tt.cla)
			c.IsChained = tt.chained
			got, err := c.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %02X, want %02X", got, tt.want)
			}
		})
	}

	if _, err := (Class{Raw: 0xFF}).Encode(); err == nil {
		t.Error("Encode() accepted FF")
	}
}

func TestClass_String(t *testing.T) {
	tests := []struct {
		cla  byte
		want string
	}{
		{0x00, "CLA 00 (interindustry, channel 0)"},
		{0x80, "CLA 80 (proprietary, channel 0)"},
		{0x1D, "CLA 1D (interindustry, channel 1, secure messaging, chained)"},
	}
	for _, tt := range tests {
		if got := MustClass(tt.cla).String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMustClass_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustClass(FF) did not panic")
		}
	}()
	MustClass(0xFF)
}
