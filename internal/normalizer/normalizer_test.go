package normalizer

import "testing"

func TestCanonicalTag(t *testing.T) {
	n := New(map[string]string{
		"Pump3_Vibration":       "pump3_vibration",
		"FlowRate_Influent_001": "influent_flow",
	})

	tests := []struct {
		name string
		tag  string
		want string
	}{
		{name: "mapped", tag: "Pump3_Vibration", want: "pump3_vibration"},
		{name: "mapped-flow", tag: "FlowRate_Influent_001", want: "influent_flow"},
		{name: "fallback-whitespace", tag: "Pump A", want: "pump_a"},
		{name: "fallback-multiple-spaces", tag: "Basin  2  Level", want: "basin_2_level"},
		{name: "fallback-already-canonical", tag: "pump_a", want: "pump_a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.CanonicalTag(tt.tag); got != tt.want {
				t.Fatalf("CanonicalTag(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

// 같은 입력을 두 번 정규화해도 결과가 같아야 한다
func TestNormalizeIdempotent(t *testing.T) {
	n := New(map[string]string{"Chlorine_Effluent_001": "effluent_chlorine"})

	tag1, v1, u1 := n.Normalize("Chlorine_Effluent_001", 1.2, "ppm")
	tag2, v2, u2 := n.Normalize(tag1, v1, u1)

	if tag1 != "effluent_chlorine" {
		t.Fatalf("first pass tag = %q, want %q", tag1, "effluent_chlorine")
	}
	if tag2 != tag1 || v2 != v1 || u2 != u1 {
		t.Fatalf("second pass changed output: (%q %v %q) != (%q %v %q)", tag2, v2, u2, tag1, v1, u1)
	}
}

func TestFallbackTagDeterministic(t *testing.T) {
	a := FallbackTag("Pump A")
	b := FallbackTag("Pump A")
	if a != b || a != "pump_a" {
		t.Fatalf("FallbackTag not deterministic: %q vs %q", a, b)
	}

	// fallback 출력에 다시 적용해도 변하지 않음
	if got := FallbackTag(a); got != a {
		t.Fatalf("FallbackTag(%q) = %q, want unchanged", a, got)
	}
}
