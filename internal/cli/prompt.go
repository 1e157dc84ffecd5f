package cli

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// prompter asks the user for missing input. The survey implementation needs a terminal;
// tests swap in a scripted one.
type prompter interface {
	Input(message, def string, validate func(string) error) (string, error)
	Confirm(message string, def bool) (bool, error)
}

var newPrompter = func() prompter { return surveyPrompter{} }

type surveyPrompter struct{}

func (surveyPrompter) Input(message, def string, validate func(string) error) (string, error) {
	var out string
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	err := survey.AskOne(&survey.Input{Message: message, Default: def}, &out, opts...)
	return out, normalizePromptErr(err)
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	var out bool
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out)
	return out, normalizePromptErr(err)
}

func normalizePromptErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errCancelled
	}
	return err
}
