package utils

import (
	"fmt"
	"strings"
)

func StateLabel(connected bool) string {
	if connected {
		return "Connected"
	}
	return "Disconnected"
}

// FormatDataForLog renders raw bytes for diagnostics: printable ASCII as
// text with control characters escaped, anything mostly binary as hex.
func FormatDataForLog(data []byte) string {
	if len(data) == 0 {
		return "no data"
	}

	var text strings.Builder
	binary := 0

	for _, b := range data {
		switch {
		case b >= 32 && b <= 126:
			text.WriteByte(b)
		case b == '\n':
			text.WriteString(`\n`)
		case b == '\r':
			text.WriteString(`\r`)
		case b == '\t':
			text.WriteString(`\t`)
		default:
			binary++
			fmt.Fprintf(&text, `\x%02X`, b)
		}
	}

	if binary*2 > len(data) {
		hexStr := make([]string, len(data))
		for i, b := range data {
			hexStr[i] = fmt.Sprintf("0x%02X", b)
		}
		return fmt.Sprintf("[%s] (%d bytes)", strings.Join(hexStr, " "), len(data))
	}

	return fmt.Sprintf("\"%s\" (%d bytes)", text.String(), len(data))
}
