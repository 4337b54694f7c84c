package schema

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw     string
		wantNum bool
		wantStr string
	}{
		{"42", true, "42"},
		{"-3.5", true, "-3.5"},
		{" 7 ", true, "7"},
		{"1e3", true, "1000"},
		{"abc", false, "abc"},
		{"12px", false, "12px"},
		{"", false, ""},
		{"NaN", false, "NaN"},
		{"Inf", false, "Inf"},
		{"infinity", false, "infinity"},
	}

	for _, tt := range tests {
		v := ParseValue(tt.raw)
		if v.IsNumber() != tt.wantNum {
			t.Errorf("ParseValue(%q).IsNumber() = %v, want %v", tt.raw, v.IsNumber(), tt.wantNum)
		}
		if v.String() != tt.wantStr {
			t.Errorf("ParseValue(%q).String() = %q, want %q", tt.raw, v.String(), tt.wantStr)
		}
	}
}

func TestValue_Interface(t *testing.T) {
	if got := ParseValue("10").Interface(); got != float64(10) {
		t.Errorf("Interface() = %#v, want float64(10)", got)
	}
	if got := ParseValue("ten").Interface(); got != "ten" {
		t.Errorf("Interface() = %#v, want \"ten\"", got)
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	num, err := ParseValue("5").MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(num) != "5" {
		t.Errorf("MarshalJSON() = %s, want 5", num)
	}

	str, err := ParseValue("5x").MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(str) != `"5x"` {
		t.Errorf("MarshalJSON() = %s, want \"5x\"", str)
	}
}
