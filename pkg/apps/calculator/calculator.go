// Package calculator implements the desktop calculator: a four-function
// state machine driven by button presses.
package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"webdesk/pkg/wm"
)

// ErrorDisplay is shown after a division by zero.
const ErrorDisplay = "Error"

// ErrUnknownKey is returned by Press for a key with no button.
var ErrUnknownKey = errors.New("calculator: unknown key")

// Calculator holds the display and the pending operation.
type Calculator struct {
	mu       sync.Mutex
	display  string
	previous *float64
	op       string
	waiting  bool
}

// New creates a calculator showing 0.
func New() *Calculator {
	return &Calculator{display: "0"}
}

// Display returns the current display text.
func (c *Calculator) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// Digit enters a digit.
func (c *Calculator) Digit(d string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiting {
		c.display = d
		c.waiting = false
		return
	}
	if c.display == "0" {
		c.display = d
	} else {
		c.display += d
	}
}

// Decimal enters a decimal point, once per operand.
func (c *Calculator) Decimal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiting {
		c.display = "0."
		c.waiting = false
		return
	}
	if !strings.Contains(c.display, ".") {
		c.display += "."
	}
}

// Clear resets the calculator.
func (c *Calculator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset("0")
}

func (c *Calculator) reset(display string) {
	c.display = display
	c.previous = nil
	c.op = ""
	c.waiting = false
}

func (c *Calculator) fail() {
	c.reset(ErrorDisplay)
	c.waiting = true
}

// Operator applies any pending operation and starts op, one of + - * /.
func (c *Calculator) Operator(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	input := parse(c.display)
	switch {
	case c.previous == nil:
		c.previous = &input
	case c.op != "":
		result, ok := calculate(*c.previous, input, c.op)
		if !ok {
			c.fail()
			return
		}
		c.display = format(result)
		c.previous = &result
	}

	c.waiting = true
	c.op = op
}

// Equals applies the pending operation.
func (c *Calculator) Equals() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.previous == nil || c.op == "" {
		return
	}
	result, ok := calculate(*c.previous, parse(c.display), c.op)
	if !ok {
		c.fail()
		return
	}
	c.display = format(result)
	c.previous = nil
	c.op = ""
	c.waiting = true
}

// ToggleSign negates the display.
func (c *Calculator) ToggleSign() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.display == "0" || c.display == ErrorDisplay {
		return
	}
	if strings.HasPrefix(c.display, "-") {
		c.display = c.display[1:]
	} else {
		c.display = "-" + c.display
	}
}

// Percent divides the display by 100.
func (c *Calculator) Percent() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := parse(c.display); !math.IsNaN(v) {
		c.display = format(v / 100)
	}
}

// Press dispatches a button label: a digit, ".", "C", "=", "±", "%" or an
// operator.
func (c *Calculator) Press(key string) error {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		c.Digit(key)
	case ".":
		c.Decimal()
	case "C":
		c.Clear()
	case "=":
		c.Equals()
	case "±", "+/-":
		c.ToggleSign()
	case "%":
		c.Percent()
	case "+", "-", "*", "/":
		c.Operator(key)
	default:
		return ErrUnknownKey
	}
	return nil
}

func calculate(a, b float64, op string) (float64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		return b, true
	}
}

// parse reads a display value. Anything unparsable is NaN.
func parse(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// State is the rendered state of the calculator.
type State struct {
	Display   string `json:"display"`
	Operation string `json:"operation,omitempty"`
}

// Render implements wm.App.
func (c *Calculator) Render() wm.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wm.View{Kind: "calculator", State: State{Display: c.display, Operation: c.op}}
}
