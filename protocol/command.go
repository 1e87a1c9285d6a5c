// Package protocol encodes actuator commands into the line-oriented text
// protocol spoken by the motor controller.
//
// Outbound lines:
//
//	ON <id> <level>   run actuator id (1-9) at level (0-255)
//	OFF <id>          stop actuator id
//	OFF ALL           stop every actuator
//
// Inbound lines are free-form telemetry and are not parsed.
package protocol

import (
	"fmt"
	"strconv"

	"motor-control-panel/config"
)

const (
	KeywordOn  = "ON"
	KeywordOff = "OFF"
	KeywordAll = "ALL"

	LineTerminator = "\n"
)

type commandKind int

const (
	kindRun commandKind = iota
	kindStop
	kindStopAll
)

// Command is a single actuator instruction. The zero value is not a valid
// command; build one with Run, Stop or StopAll.
type Command struct {
	kind     commandKind
	actuator int
	level    int
}

func Run(id, level int) Command {
	return Command{kind: kindRun, actuator: id, level: level}
}

func Stop(id int) Command {
	return Command{kind: kindStop, actuator: id}
}

func StopAll() Command {
	return Command{kind: kindStopAll}
}

// Actuator returns the addressed actuator, or 0 for StopAll.
func (c Command) Actuator() int { return c.actuator }

// Level returns the drive level of a Run command, or 0 otherwise.
func (c Command) Level() int { return c.level }

func (c Command) IsRun() bool     { return c.kind == kindRun }
func (c Command) IsStopAll() bool { return c.kind == kindStopAll }

// Encode returns the wire line for cmd without the line terminator.
// Out-of-range ids and levels fail with ErrInvalidCommand.
func Encode(cmd Command) (string, error) {
	switch cmd.kind {
	case kindRun:
		if err := ValidateActuator(cmd.actuator); err != nil {
			return "", err
		}
		if err := ValidateLevel(cmd.level); err != nil {
			return "", err
		}
		return KeywordOn + " " + strconv.Itoa(cmd.actuator) + " " + strconv.Itoa(cmd.level), nil
	case kindStop:
		if err := ValidateActuator(cmd.actuator); err != nil {
			return "", err
		}
		return KeywordOff + " " + strconv.Itoa(cmd.actuator), nil
	case kindStopAll:
		return KeywordOff + " " + KeywordAll, nil
	default:
		return "", &InvalidCommandError{Field: "kind", Value: int(cmd.kind)}
	}
}

func ValidateActuator(id int) error {
	if id < config.MIN_ACTUATOR || id > config.MAX_ACTUATOR {
		return &InvalidCommandError{Field: "actuator", Value: id}
	}
	return nil
}

func ValidateLevel(level int) error {
	if level < config.MIN_LEVEL || level > config.MAX_LEVEL {
		return &InvalidCommandError{Field: "level", Value: level}
	}
	return nil
}

func (c Command) String() string {
	line, err := Encode(c)
	if err != nil {
		return fmt.Sprintf("invalid(%v)", err)
	}
	return line
}
