package tlv

// Struct mapping on top of github.com/moov-io/bertlv. Unlike Scan, the
// decoder is strict: nesting is followed, long tags and lengths are
// supported and malformed input is an error.
//
// A field is bound with `tlv:"<TAG>"`. Supported kinds are []byte, string
// (lowercase hex), nested structs or struct pointers for constructed tags,
// slices of those for repeated tags, and any Unmarshaler. A
// []bertlv.TLV field tagged `tlv:",unknown"` collects packets no field
// claims.

import (
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// Unmarshaler is implemented by fields decoding their own value bytes.
type Unmarshaler interface {
	UnmarshalTLV(data []byte) error
}

var packetsType = reflect.TypeOf([]bertlv.TLV(nil))

// Unmarshal decodes BER-TLV data into the struct pointed to by target.
func Unmarshal(data []byte, target any) error {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return fmt.Errorf("bertlv decode failed: %w", err)
	}
	return UnmarshalFromPackets(packets, target)
}

// UnmarshalFromPackets maps already decoded packets into target. When a
// tag bound to a single value repeats, the last packet wins.
func UnmarshalFromPackets(packets []bertlv.TLV, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.New("target must be a non-nil pointer to a struct")
	}
	s := v.Elem()
	b := bind(s.Type())

	var unclaimed []bertlv.TLV
	for _, p := range packets {
		tag := strings.ToUpper(p.Tag)
		idx, ok := b.fields[tag]
		if !ok {
			unclaimed = append(unclaimed, p)
			continue
		}
		if err := assign(s.Field(idx), p); err != nil {
			return fmt.Errorf("tag %s: %w", tag, err)
		}
	}

	if b.unknown >= 0 && len(unclaimed) > 0 {
		s.Field(b.unknown).Set(reflect.ValueOf(unclaimed))
	}
	return nil
}

type binding struct {
	fields  map[string]int
	unknown int
}

func bind(t reflect.Type) binding {
	b := binding{fields: make(map[string]int), unknown: -1}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opt, _ := strings.Cut(f.Tag.Get("tlv"), ",")
		switch {
		case opt == "unknown" && f.Type == packetsType:
			b.unknown = i
		case name != "":
			b.fields[strings.ToUpper(name)] = i
		}
	}
	return b
}

func assign(field reflect.Value, p bertlv.TLV) error {
	ft := field.Type()
	if ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8 {
		elem := reflect.New(ft.Elem()).Elem()
		if err := assignOne(elem, p); err != nil {
			return err
		}
		field.Set(reflect.Append(field, elem))
		return nil
	}
	return assignOne(field, p)
}

func assignOne(field reflect.Value, p bertlv.TLV) error {
	if u, ok := field.Addr().Interface().(Unmarshaler); ok {
		return u.UnmarshalTLV(valueBytes(p))
	}

	switch field.Kind() {
	case reflect.Slice:
		field.SetBytes(valueBytes(p))
	case reflect.String:
		field.SetString(hex.EncodeToString(valueBytes(p)))
	case reflect.Struct:
		return nested(p, field.Addr().Interface())
	case reflect.Pointer:
		if field.Type().Elem().Kind() != reflect.Struct {
			return fmt.Errorf("unsupported field type %s", field.Type())
		}
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return nested(p, field.Interface())
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

func nested(p bertlv.TLV, target any) error {
	if len(p.TLVs) > 0 {
		return UnmarshalFromPackets(p.TLVs, target)
	}
	return Unmarshal(p.Value, target)
}

// valueBytes returns the value field of p. Children of a constructed
// packet are encoded back.
func valueBytes(p bertlv.TLV) []byte {
	if len(p.TLVs) == 0 {
		return p.Value
	}
	enc, err := bertlv.Encode(p.TLVs)
	if err != nil {
		return p.Value
	}
	return enc
}
