package input

import (
	"errors"

	"github.com/adammck/mech/components/controller"
)

var ErrExhausted = errors.New("script exhausted")

// Script is a fake input source which returns each of its inputs in turn. When
// they run out, it keeps returning the last one, unless Strict is set.
type Script struct {
	Inputs []controller.Input
	Strict bool
	Reads  int
}

func NewScript(inputs ...controller.Input) *Script {
	return &Script{Inputs: inputs}
}

func (s *Script) Read() (controller.Input, error) {
	defer func() { s.Reads += 1 }()

	if s.Reads < len(s.Inputs) {
		return s.Inputs[s.Reads], nil
	}

	if s.Strict || len(s.Inputs) == 0 {
		return controller.Input{}, ErrExhausted
	}

	return s.Inputs[len(s.Inputs)-1], nil
}
