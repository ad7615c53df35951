package emv

import (
	"errors"

	"github.com/gregLibert/emv-reader/pkg/mask"
	"github.com/gregLibert/emv-reader/pkg/tlv"
)

// Labels of fields that have no dedicated decoding.
const (
	UnknownTagPrefix  = "Tag "
	UnparsedTagPrefix = "Unparsed Tag "
)

// Decode walks a raw response and returns the decoded fields.
//
// Card data is stored under its TagID: the PAN and track 2 masked, names as
// text, the expiration date as hex. Other registered tags are stored as hex
// under "Unparsed Tag <code>" and unregistered ones under "Tag <code>".
// A truncated buffer yields the fields read so far and Record.Truncated.
func Decode(data []byte) *Record {
	rec := NewRecord()

	entries, err := tlv.Scan(data)
	rec.truncated = errors.Is(err, tlv.ErrTruncated)

	for _, e := range entries {
		def := Lookup(e.Tag)

		switch def.ID {
		case TagApplicationPAN:
			rec.Set(string(def.ID), mask.PAN(tlv.Upper(e.Value)))
		case TagTrack2EquivalentData:
			rec.Set(string(def.ID), mask.Track2(tlv.Upper(e.Value)))
		case TagCardholderName, TagApplicationPreferredName:
			rec.Set(string(def.ID), DecodeText(e.Value))
		case TagExpirationDate:
			rec.Set(string(def.ID), tlv.Upper(e.Value))
		case Unknown:
			rec.Set(UnknownTagPrefix+e.Tag, tlv.Upper(e.Value))
		default:
			rec.Set(UnparsedTagPrefix+e.Tag, tlv.Upper(e.Value))
		}
	}

	return rec
}
