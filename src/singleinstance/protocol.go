package singleinstance

import (
	"fmt"
	"strconv"
	"strings"

	"xrandream/src/geometry"
)

// Verbs of the line protocol. One request line per connection, then a
// SUCCESS/ERROR status line plus optional payload.
const (
	VerbEnable  = "ENABLE"
	VerbDisable = "DISABLE"
	VerbToggle  = "TOGGLE"
	VerbRegion  = "REGION"
	VerbSet     = "SET"
	VerbList    = "LIST"
	VerbClear   = "CLEAR"
)

// Request is a single delegated command. Area is set for ENABLE, DISABLE
// and TOGGLE; Region is set for SET.
type Request struct {
	Verb   string
	Area   string
	Region geometry.Rect
}

// EncodeRequest renders a request as its protocol line (without newline).
func EncodeRequest(req Request) (string, error) {
	switch req.Verb {
	case VerbEnable, VerbDisable, VerbToggle:
		if req.Area == "" {
			return "", fmt.Errorf("%s requires an area", req.Verb)
		}
		return req.Verb + " " + req.Area, nil
	case VerbSet:
		r := req.Region
		return fmt.Sprintf("%s %d %d %d %d", VerbSet, r.X, r.Y, r.Width, r.Height), nil
	case VerbRegion, VerbList, VerbClear:
		return req.Verb, nil
	default:
		return "", fmt.Errorf("unknown verb %q", req.Verb)
	}
}

// ParseRequest parses one protocol line into a Request.
func ParseRequest(line string) (Request, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Request{}, fmt.Errorf("empty request")
	}

	verb := strings.ToUpper(fields[0])
	switch verb {
	case VerbEnable, VerbDisable, VerbToggle:
		if len(fields) != 2 {
			return Request{}, fmt.Errorf("%s expects exactly one area", verb)
		}
		if !geometry.IsArea(fields[1]) {
			return Request{}, fmt.Errorf("unknown area %q", fields[1])
		}
		return Request{Verb: verb, Area: fields[1]}, nil
	case VerbSet:
		if len(fields) != 5 {
			return Request{}, fmt.Errorf("SET expects x y width height")
		}
		nums := make([]int, 4)
		for i, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return Request{}, fmt.Errorf("SET argument %q: %w", f, err)
			}
			nums[i] = n
		}
		return Request{
			Verb:   verb,
			Area:   geometry.AreaSelectRegion,
			Region: geometry.Rect{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]},
		}, nil
	case VerbRegion, VerbList, VerbClear:
		if len(fields) != 1 {
			return Request{}, fmt.Errorf("%s takes no arguments", verb)
		}
		return Request{Verb: verb}, nil
	default:
		return Request{}, fmt.Errorf("unknown verb %q", fields[0])
	}
}
