package protocol

import (
	"strconv"
	"strings"
)

// Parse turns a typed command line back into a Command. It accepts exactly
// the shapes Encode produces; keywords are case-sensitive and a trailing
// line terminator is ignored.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	fields := strings.Split(trimmed, " ")

	switch {
	case len(fields) == 3 && fields[0] == KeywordOn:
		id, err := parseNumber(trimmed, "actuator", fields[1])
		if err != nil {
			return Command{}, err
		}
		level, err := parseNumber(trimmed, "level", fields[2])
		if err != nil {
			return Command{}, err
		}
		cmd := Run(id, level)
		if _, err := Encode(cmd); err != nil {
			return Command{}, err
		}
		return cmd, nil

	case len(fields) == 2 && fields[0] == KeywordOff && fields[1] == KeywordAll:
		return StopAll(), nil

	case len(fields) == 2 && fields[0] == KeywordOff:
		id, err := parseNumber(trimmed, "actuator", fields[1])
		if err != nil {
			return Command{}, err
		}
		cmd := Stop(id)
		if _, err := Encode(cmd); err != nil {
			return Command{}, err
		}
		return cmd, nil
	}

	return Command{}, &InvalidCommandError{Field: "syntax", Line: trimmed}
}

// parseNumber accepts plain decimal digits in canonical form: no sign and
// no leading zero.
func parseNumber(line, field, s string) (int, error) {
	bad := &InvalidCommandError{Field: field, Line: line}
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, bad
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, bad
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, bad
	}
	return n, nil
}
