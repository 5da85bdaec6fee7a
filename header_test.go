package xhttp2

import "testing"

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := NewHeader(4096, 4096)

	fields := []HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":path", Value: "/"},
		{Name: "user-agent", Value: "xhttp2-test"},
	}

	block, err := h.Encode(nil, fields)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}

	out, err := h.Decode(block)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}

	if len(out) != len(fields) {
		t.Fatalf("expected %d fields, got %d", len(fields), len(out))
	}
	for i, f := range fields {
		if out[i].Name != f.Name || out[i].Value != f.Value {
			t.Fatalf("field %d mismatch: got %+v want %+v", i, out[i], f)
		}
	}
}

func TestHeaderDecodeAcrossTwoConnections(t *testing.T) {
	enc := NewHeader(4096, 4096)
	dec := NewHeader(4096, 4096)

	fields := []HeaderField{
		{Name: ":status", Value: "200"},
		{Name: "content-type", Value: "application/grpc"},
	}

	block, err := enc.Encode(nil, fields)
	if err != nil {
		t.Fatalf("Encode: %s", err)
	}

	out, err := dec.Decode(block)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if len(out) != 2 || out[0].Value != "200" || out[1].Value != "application/grpc" {
		t.Fatalf("decoded fields mismatch: %+v", out)
	}
}

func TestHeaderEncoderDynamicTableResize(t *testing.T) {
	enc := NewHeader(4096, 4096)
	dec := NewHeader(4096, 4096)

	// A peer shrinking its advertised SETTINGS_HEADER_TABLE_SIZE must
	// bound how large a table our encoder is allowed to build, without
	// touching our own decoder's table size.
	enc.SetEncoderMaxDynamicTableSize(0)

	fields := []HeaderField{{Name: "x-test", Value: "value"}}
	block, err := enc.Encode(nil, fields)
	if err != nil {
		t.Fatalf("Encode with shrunk encoder table: %s", err)
	}

	out, err := dec.Decode(block)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if len(out) != 1 || out[0].Name != "x-test" || out[0].Value != "value" {
		t.Fatalf("field mismatch after encoder table resize: %+v", out)
	}
}

func TestHeaderEncodeMultipleCallsAreIndependent(t *testing.T) {
	h := NewHeader(4096, 4096)

	first, err := h.Encode(nil, []HeaderField{{Name: "a", Value: "1"}})
	if err != nil {
		t.Fatalf("Encode first: %s", err)
	}
	second, err := h.Encode(nil, []HeaderField{{Name: "b", Value: "2"}})
	if err != nil {
		t.Fatalf("Encode second: %s", err)
	}

	if len(first) == 0 || len(second) == 0 {
		t.Fatal("expected nonempty header blocks")
	}

	dec := NewHeader(4096, 4096)
	out, err := dec.Decode(second)
	if err != nil {
		t.Fatalf("Decode second block: %s", err)
	}
	if len(out) != 1 || out[0].Name != "b" || out[0].Value != "2" {
		t.Fatalf("second block decoded incorrectly, possibly leaked state from first: %+v", out)
	}
}
