package vfs

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// Size returns the byte length of the UTF-8 encoding of content.
func Size(content string) int {
	return len(content)
}

// FormatSize renders bytes using binary units: the largest unit for which
// the scaled value is at least 1, rounded to the nearest integer.
// FormatSize(0) is "0 B" and FormatSize(1536) is "2 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := 0
	value := float64(bytes)
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	return strconv.FormatInt(int64(math.Round(value)), 10) + " " + sizeUnits[i]
}
