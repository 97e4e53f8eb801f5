package protocol

import (
	"math"
	"testing"
)

func TestEncodeDecodeUvarint(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		bytes int // expected encoded length
	}{
		{"zero", 0, 1},
		{"max_1byte", 127, 1},
		{"min_2byte", 128, 2},
		{"max_2byte", 16383, 2},
		{"min_3byte", 16384, 3},
		{"seq_number", 1000000, 3},
		{"max_uint32", math.MaxUint32, 5},
		{"max_uint64", math.MaxUint64, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, MaxVarintLen)
			n := EncodeUvarint(buf, tc.value)

			if n != tc.bytes {
				t.Errorf("EncodeUvarint(%d) = %d bytes, want %d", tc.value, n, tc.bytes)
			}
			if got := UvarintLen(tc.value); got != n {
				t.Errorf("UvarintLen(%d) = %d, but EncodeUvarint wrote %d bytes", tc.value, got, n)
			}

			decoded, read := DecodeUvarint(buf[:n])
			if read != n {
				t.Errorf("DecodeUvarint read %d bytes, want %d", read, n)
			}
			if decoded != tc.value {
				t.Errorf("DecodeUvarint = %d, want %d", decoded, tc.value)
			}
		})
	}
}

func TestEncodeDecodeSvarint(t *testing.T) {
	tests := []struct {
		name  string
		value int64
	}{
		{"zero", 0},
		{"one", 1},
		{"neg_one", -1},
		{"skidding", 12},
		{"neg_offset", -8},
		{"big_pos", 1 << 40},
		{"big_neg", -(1 << 40)},
		{"max_int64", math.MaxInt64},
		{"min_int64", math.MinInt64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, MaxVarintLen)
			n := EncodeSvarint(buf, tc.value)

			if got := SvarintLen(tc.value); got != n {
				t.Errorf("SvarintLen(%d) = %d, but EncodeSvarint wrote %d bytes", tc.value, got, n)
			}

			decoded, read := DecodeSvarint(buf[:n])
			if read != n {
				t.Errorf("DecodeSvarint read %d bytes, want %d", read, n)
			}
			if decoded != tc.value {
				t.Errorf("DecodeSvarint = %d, want %d", decoded, tc.value)
			}
		})
	}
}

func TestZigZagMapping(t *testing.T) {
	// 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
	tests := []struct {
		signed   int64
		unsigned uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{-64, 127},
		{64, 128},
	}

	for _, tc := range tests {
		buf := make([]byte, MaxVarintLen)
		EncodeSvarint(buf, tc.signed)

		decoded, _ := DecodeUvarint(buf)
		if decoded != tc.unsigned {
			t.Errorf("ZigZag(%d) = %d, want %d", tc.signed, decoded, tc.unsigned)
		}
	}
}

func TestDecodeUvarintErrors(t *testing.T) {
	// Empty buffer
	_, n := DecodeUvarint(nil)
	if n != -1 {
		t.Errorf("DecodeUvarint(nil) = %d, want -1", n)
	}

	// Incomplete varint: every byte has the continuation bit set
	_, n = DecodeUvarint([]byte{0x80, 0x80, 0x80})
	if n != -1 {
		t.Errorf("DecodeUvarint(incomplete) = %d, want -1", n)
	}

	// Overflow: 11 continuation bytes
	overflow := make([]byte, 11)
	for i := range overflow {
		overflow[i] = 0x80
	}
	_, n = DecodeUvarint(overflow)
	if n != -2 {
		t.Errorf("DecodeUvarint(overflow) = %d, want -2", n)
	}

	// Svarint propagates the failure
	_, n = DecodeSvarint([]byte{0xFF})
	if n != -1 {
		t.Errorf("DecodeSvarint(incomplete) = %d, want -1", n)
	}
}

func BenchmarkEncodeUvarint(b *testing.B) {
	buf := make([]byte, MaxVarintLen)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EncodeUvarint(buf, uint64(i))
	}
}

func BenchmarkDecodeUvarint(b *testing.B) {
	buf := make([]byte, MaxVarintLen)
	EncodeUvarint(buf, 87654321)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DecodeUvarint(buf)
	}
}
