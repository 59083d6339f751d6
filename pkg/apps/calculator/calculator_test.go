package calculator

import "testing"

func press(t *testing.T, c *Calculator, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if err := c.Press(k); err != nil {
			t.Fatalf("Press(%q) failed: %v", k, err)
		}
	}
}

func TestCalculator(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected string
	}{
		{"initial", nil, "0"},
		{"digits", []string{"1", "2", "3"}, "123"},
		{"leading zero", []string{"0", "0", "7"}, "7"},
		{"addition", []string{"2", "+", "3", "="}, "5"},
		{"chained", []string{"2", "+", "3", "*", "4", "="}, "20"},
		{"intermediate result", []string{"2", "+", "3", "*"}, "5"},
		{"subtraction", []string{"3", "-", "8", "="}, "-5"},
		{"division", []string{"7", "/", "2", "="}, "3.5"},
		{"divide by zero", []string{"7", "/", "0", "="}, "Error"},
		{"divide by zero chained", []string{"7", "/", "0", "+"}, "Error"},
		{"decimal", []string{"1", ".", "5", ".", "2"}, "1.52"},
		{"decimal after operator", []string{"1", "+", ".", "5", "="}, "1.5"},
		{"float noise", []string{".", "1", "+", ".", "2", "="}, "0.30000000000000004"},
		{"toggle sign", []string{"4", "±"}, "-4"},
		{"toggle twice", []string{"4", "±", "±"}, "4"},
		{"toggle zero", []string{"±"}, "0"},
		{"percent", []string{"5", "0", "%"}, "0.5"},
		{"clear", []string{"9", "+", "1", "C"}, "0"},
		{"equals without op", []string{"9", "="}, "9"},
		{"new number after equals", []string{"2", "+", "2", "=", "7"}, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			press(t, c, tt.keys...)
			if got := c.Display(); got != tt.expected {
				t.Errorf("display = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestErrorIgnoresToggle(t *testing.T) {
	c := New()
	press(t, c, "1", "/", "0", "=", "±")
	if c.Display() != ErrorDisplay {
		t.Errorf("expected Error, got %q", c.Display())
	}

	press(t, c, "C", "4")
	if c.Display() != "4" {
		t.Errorf("expected recovery after clear, got %q", c.Display())
	}
}

func TestPressUnknown(t *testing.T) {
	if err := New().Press("sqrt"); err != ErrUnknownKey {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestRender(t *testing.T) {
	c := New()
	press(t, c, "6", "*")
	st := c.Render().State.(State)
	if st.Display != "6" || st.Operation != "*" {
		t.Errorf("unexpected state %+v", st)
	}
}
