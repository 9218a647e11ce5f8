package ui

import (
	"errors"
	"strconv"
	"strings"
)

const (
	CallbackPrefix     = "s:"
	MaxCallbackDataLen = 64
)

type Screen string

const (
	ScreenHome   Screen = "home"
	ScreenFormat Screen = "fmt"
	ScreenMedia  Screen = "media"
	ScreenClose  Screen = "close"
)

type Operation string

const (
	OpNone   Operation = ""
	OpSet    Operation = "set"
	OpToggle Operation = "toggle"
)

type Action struct {
	Screen Screen
	Op     Operation
	Value  int
}

// Numeric codes carried in callback data for the format picker.
const (
	FormatCodePackage = 1
	FormatCodeZip     = 2
	FormatCodeTable   = 3
)

// Media toggle targets.
const (
	MediaImages = 1
	MediaAudio  = 2
)

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidOperation    = errors.New("invalid callback operation")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildHomeCallback() (string, error) {
	return buildSimpleCallback(ScreenHome)
}

func BuildFormatCallback() (string, error) {
	return buildSimpleCallback(ScreenFormat)
}

func BuildMediaCallback() (string, error) {
	return buildSimpleCallback(ScreenMedia)
}

func BuildCloseCallback() (string, error) {
	return buildSimpleCallback(ScreenClose)
}

func BuildFormatSetCallback(code int) (string, error) {
	if code != FormatCodePackage && code != FormatCodeZip && code != FormatCodeTable {
		return "", errInvalidValue
	}
	data := CallbackPrefix + string(ScreenFormat) + ":" + string(OpSet) + ":" + strconv.Itoa(code)
	return validateCallbackData(data)
}

func BuildMediaToggleCallback(target int) (string, error) {
	if target != MediaImages && target != MediaAudio {
		return "", errInvalidValue
	}
	data := CallbackPrefix + string(ScreenMedia) + ":" + string(OpToggle) + ":" + strconv.Itoa(target)
	return validateCallbackData(data)
}

// FormatCode maps a stored export format to its callback code. Unknown
// formats map to the package code, matching the storage default.
func FormatCode(format string) int {
	switch format {
	case "zip":
		return FormatCodeZip
	case "tsv":
		return FormatCodeTable
	default:
		return FormatCodePackage
	}
}

func FormatFromCode(code int) (string, bool) {
	switch code {
	case FormatCodePackage:
		return "apkg", true
	case FormatCodeZip:
		return "zip", true
	case FormatCodeTable:
		return "tsv", true
	default:
		return "", false
	}
}

func ParseCallbackData(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, CallbackPrefix) {
		return Action{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	if len(parts) < 2 || parts[0] != "s" {
		return Action{}, errInvalidPrefix
	}

	switch len(parts) {
	case 2:
		return parseSimpleAction(parts[1])
	case 4:
		screen, err := parseScreen(parts[1])
		if err != nil {
			return Action{}, err
		}
		switch Operation(parts[2]) {
		case OpSet:
			return parseSetAction(screen, parts[3])
		case OpToggle:
			return parseToggleAction(screen, parts[3])
		default:
			return Action{}, errInvalidOperation
		}
	default:
		return Action{}, errInvalidAction
	}
}

func buildSimpleCallback(screen Screen) (string, error) {
	data := CallbackPrefix + string(screen)
	return validateCallbackData(data)
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func parseSimpleAction(screenPart string) (Action, error) {
	screen, err := parseScreen(screenPart)
	if err != nil {
		return Action{}, err
	}
	return Action{Screen: screen, Op: OpNone, Value: 0}, nil
}

func parseSetAction(screen Screen, valuePart string) (Action, error) {
	if screen != ScreenFormat {
		return Action{}, errInvalidAction
	}
	if !isASCIIUnsignedInt(valuePart) {
		return Action{}, errInvalidValue
	}
	value, err := strconv.Atoi(valuePart)
	if err != nil {
		return Action{}, errInvalidValue
	}
	if _, ok := FormatFromCode(value); !ok {
		return Action{}, errInvalidValue
	}
	return Action{Screen: screen, Op: OpSet, Value: value}, nil
}

func parseToggleAction(screen Screen, valuePart string) (Action, error) {
	if screen != ScreenMedia {
		return Action{}, errInvalidAction
	}
	if !isASCIIUnsignedInt(valuePart) {
		return Action{}, errInvalidValue
	}
	value, err := strconv.Atoi(valuePart)
	if err != nil {
		return Action{}, errInvalidValue
	}
	if value != MediaImages && value != MediaAudio {
		return Action{}, errInvalidValue
	}
	return Action{Screen: screen, Op: OpToggle, Value: value}, nil
}

func parseScreen(screenPart string) (Screen, error) {
	switch Screen(screenPart) {
	case ScreenHome:
		return ScreenHome, nil
	case ScreenFormat:
		return ScreenFormat, nil
	case ScreenMedia:
		return ScreenMedia, nil
	case ScreenClose:
		return ScreenClose, nil
	default:
		return "", errInvalidAction
	}
}

func isASCIIUnsignedInt(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
