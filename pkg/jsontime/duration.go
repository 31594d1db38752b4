package jsontime

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration written by hand in documents. It decodes from
// a duration string ("3m12s") or a number of seconds (192.5), and encodes as
// the duration string.
type Duration time.Duration

// ParseDuration parses a duration string or a decimal number of seconds.
func ParseDuration(s string) (Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return Duration(d), nil
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("jsontime: invalid duration %q", s)
	}
	return FromSeconds(sec)
}

// FromSeconds converts a number of seconds, rounding to the nearest nanosecond.
func FromSeconds(sec float64) (Duration, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || math.Abs(sec) > math.MaxInt64/float64(time.Second) {
		return 0, fmt.Errorf("jsontime: duration %v seconds out of range", sec)
	}
	return Duration(math.Round(sec * float64(time.Second))), nil
}

// Duration returns the underlying time.Duration value.
// Returns 0 if d is nil.
func (d *Duration) Duration() time.Duration {
	if d == nil {
		return 0
	}
	return time.Duration(*d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Seconds returns the duration as a floating point number of seconds.
func (d Duration) Seconds() float64 {
	return time.Duration(d).Seconds()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseDuration(s)
		if err != nil {
			return err
		}
		*d = v
		return nil
	}
	var sec float64
	if err := json.Unmarshal(b, &sec); err != nil {
		return fmt.Errorf("jsontime: duration must be a string or seconds: %w", err)
	}
	v, err := FromSeconds(sec)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Plain scalars such as 3m12s
// and 192.5 are both accepted.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("jsontime: line %d: duration must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		return nil
	}
	v, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = v
	return nil
}

var (
	_ msgpack.CustomEncoder = Duration(0)
	_ msgpack.CustomDecoder = (*Duration)(nil)
)

// EncodeMsgpack stores the duration as integer nanoseconds.
func (d Duration) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeInt(int64(d))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Duration) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeInt64()
	if err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}
