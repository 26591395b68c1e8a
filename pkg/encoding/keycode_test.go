package encoding

import (
	"bytes"
	"math"
	"testing"
)

func TestInt64_OrderPreserving(t *testing.T) {
	values := []int64{math.MinInt64, -1 << 40, -1, 0, 1, 1 << 40, math.MaxInt64}
	for i := 0; i < len(values)-1; i++ {
		a, b := EncodeInt64(values[i]), EncodeInt64(values[i+1])
		if bytes.Compare(a, b) >= 0 {
			t.Fatalf("EncodeInt64(%d) >= EncodeInt64(%d), want <", values[i], values[i+1])
		}
	}
}

func TestInt64_RoundTrip(t *testing.T) {
	for _, v := range []int64{math.MinInt64, -42, 0, 42, math.MaxInt64} {
		got, rest, err := DecodeInt64(EncodeInt64(v))
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if got != v || len(rest) != 0 {
			t.Fatalf("round trip %d -> %d (rest %v)", v, got, rest)
		}
	}
}

func TestFloat64_OrderPreserving(t *testing.T) {
	values := []float64{math.Inf(-1), -1e100, -1.5, -0.0, 0.0, 1.5, 1e100, math.Inf(1)}
	for i := 0; i < len(values)-1; i++ {
		a, b := EncodeFloat64(values[i]), EncodeFloat64(values[i+1])
		if bytes.Compare(a, b) > 0 {
			t.Fatalf("EncodeFloat64(%v) > EncodeFloat64(%v), want <=", values[i], values[i+1])
		}
	}
}

func TestFloat64_RoundTrip(t *testing.T) {
	for _, v := range []float64{-1e10, -1.5, 0, 1.5, 1e10} {
		got, rest, err := DecodeFloat64(EncodeFloat64(v))
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if got != v || len(rest) != 0 {
			t.Fatalf("round trip %v -> %v (rest %v)", v, got, rest)
		}
	}
}

func TestBytes_RoundTripAndOrder(t *testing.T) {
	cases := [][]byte{{}, []byte("abc"), []byte("abcd"), {0x00, 0x01}, {0x00, 0x00}, []byte("abc\x00def")}
	for _, c := range cases {
		decoded, rest, err := DecodeBytes(EncodeBytes(c))
		if err != nil {
			t.Fatalf("decode error for %v: %v", c, err)
		}
		if !bytes.Equal(decoded, c) || len(rest) != 0 {
			t.Fatalf("round trip %v -> %v (rest %v)", c, decoded, rest)
		}
	}

	if bytes.Compare(EncodeBytes([]byte("abc")), EncodeBytes([]byte("abcd"))) >= 0 {
		t.Fatalf(`encode("abc") should sort before encode("abcd")`)
	}
}

func TestBytes_ConcatenationIsUnambiguous(t *testing.T) {
	// Two fields concatenated must decode back to exactly those two fields,
	// not some other split.
	a, b := []byte("ab"), []byte("cd")
	blob := append(EncodeBytes(a), EncodeBytes(b)...)

	got1, rest, err := DecodeBytes(blob)
	if err != nil {
		t.Fatalf("decode first field: %v", err)
	}
	got2, rest2, err := DecodeBytes(rest)
	if err != nil {
		t.Fatalf("decode second field: %v", err)
	}
	if !bytes.Equal(got1, a) || !bytes.Equal(got2, b) || len(rest2) != 0 {
		t.Fatalf("concatenated decode mismatch: got1=%v got2=%v rest2=%v", got1, got2, rest2)
	}
}

func TestPrefixNext(t *testing.T) {
	next, unbounded := PrefixNext([]byte{0x01, 0x02})
	if unbounded || !bytes.Equal(next, []byte{0x01, 0x03}) {
		t.Fatalf("PrefixNext([01 02]) = %v, %v", next, unbounded)
	}

	next, unbounded = PrefixNext([]byte{0x01, 0xFF})
	if unbounded || !bytes.Equal(next, []byte{0x02}) {
		t.Fatalf("PrefixNext([01 FF]) = %v, %v", next, unbounded)
	}

	_, unbounded = PrefixNext([]byte{0xFF, 0xFF})
	if !unbounded {
		t.Fatalf("PrefixNext([FF FF]) should be unbounded")
	}
}
