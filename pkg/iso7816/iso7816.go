// Package iso7816 is the APDU layer between a terminal and a contactless
// payment card (ISO/IEC 7816-3 and 7816-4).
//
// A card answers every command APDU with a response APDU ending in a status
// word. Client hides the T=0 procedure answers (61XX, 6CXX), so a caller
// sends one logical command and reads one logical answer:
//
//	cmd := iso7816.SelectApplication(iso7816.MustClass(iso7816.CLAInterindustry), aid)
//	trace, err := iso7816.NewClient(session).Send(cmd)
//	if err != nil {
//		return err
//	}
//	result, err := iso7816.NewSelectResult(trace)
//	if err != nil {
//		return err
//	}
//	raw := result.Response().Bytes() // data, then SW1 SW2
//
// Trace keeps every exchange for diagnostics and can be logged with zerolog
// without exposing response data.
package iso7816
