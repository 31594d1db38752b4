// Package jsontime provides time types for hand-written documents and
// stored records.
package jsontime

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Milli is a time.Time that serializes to Unix milliseconds.
type Milli time.Time

// NowEpochMilli returns the current time truncated to milliseconds.
func NowEpochMilli() Milli {
	return Milli(time.UnixMilli(time.Now().UnixMilli()))
}

// Time returns the underlying time.Time value.
func (ep Milli) Time() time.Time {
	return time.Time(ep)
}

// Before reports whether ep is before t.
func (ep Milli) Before(t Milli) bool {
	return time.Time(ep).Before(time.Time(t))
}

// Equal reports whether ep and t represent the same instant.
func (ep Milli) Equal(t Milli) bool {
	return time.Time(ep).Equal(time.Time(t))
}

func (ep Milli) String() string {
	return time.Time(ep).Format(time.RFC3339)
}

// MarshalJSON implements json.Marshaler.
func (ep Milli) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(ep).UnixMilli())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ep *Milli) UnmarshalJSON(b []byte) error {
	var t int64
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(t))
	return nil
}

// MarshalYAML writes RFC 3339 so YAML output stays readable.
func (ep Milli) MarshalYAML() (any, error) {
	return ep.String(), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (ep Milli) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(time.Time(ep).UnixMilli())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (ep *Milli) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	*ep = Milli(time.UnixMilli(n))
	return nil
}
