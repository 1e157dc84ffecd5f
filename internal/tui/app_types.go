package tui

import (
	"devroster/internal/controller"
	"devroster/internal/model"
)

// focusArea is the part of the screen that receives keys.
type focusArea int

const (
	focusName focusArea = iota
	focusAge
	focusSkills
	focusTable
	focusCount
)

func (f focusArea) isField() bool { return f < focusTable }

// field returns the wire name of the form field for focus f.
func (f focusArea) field() string {
	switch f {
	case focusName:
		return model.FieldName
	case focusAge:
		return model.FieldAge
	case focusSkills:
		return model.FieldSkills
	}
	return ""
}

func focusToString(f focusArea) string {
	switch f {
	case focusName:
		return "name"
	case focusAge:
		return "age"
	case focusSkills:
		return "skills"
	case focusTable:
		return "table"
	}
	return "unknown"
}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDelete
	modalHelp
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// controllerMsg carries an event back into the update loop (effect completions, timers).
type controllerMsg struct{ ev controller.Event }
