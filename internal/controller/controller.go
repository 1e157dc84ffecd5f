// Package controller keeps the local view of the developer list consistent with the
// remote service.
//
// All state lives in one State value and changes only through Update, which returns the
// next state plus the effects (network calls, timers) the caller must run. Completions
// come back as events. The list snapshot is never patched locally: every mutation is
// followed by a full refetch.
package controller

import (
	"fmt"
	"strings"

	"devroster/internal/api"
	"devroster/internal/model"
	"devroster/internal/pager"
)

// RefetchPolicy decides when a successful submit re-fetches the list.
type RefetchPolicy int

const (
	// RefetchOnBannerClear re-fetches after a submit only when the success banner
	// expires. Delete always re-fetches at once.
	RefetchOnBannerClear RefetchPolicy = iota
	// RefetchImmediately re-fetches right after any successful mutation; the banner
	// timer only hides the banner.
	RefetchImmediately
)

func (p RefetchPolicy) String() string {
	switch p {
	case RefetchImmediately:
		return "immediate"
	default:
		return "banner"
	}
}

// ParseRefetchPolicy accepts "banner" (default) and "immediate".
func ParseRefetchPolicy(s string) (RefetchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "banner", "on-banner-clear":
		return RefetchOnBannerClear, nil
	case "immediate", "immediately", "eager":
		return RefetchImmediately, nil
	default:
		return RefetchOnBannerClear, fmt.Errorf("unknown refetch policy %q (want banner|immediate)", s)
	}
}

// Banner is the dismissible error banner.
type Banner struct {
	Open    bool
	Message string
}

// Outcome records the last completed mutation, for callers that report results.
type Outcome struct {
	Op      string
	Status  int
	Message string
	Body    []byte
	OK      bool
}

// State is the whole view state.
type State struct {
	Records     []model.Developer
	Cursor      pager.Cursor
	Selection   model.Form
	FieldErrors []model.FieldError

	Loading       bool
	SuccessBanner bool
	Error         Banner
	ModalOpen     bool

	Outcome *Outcome
	Policy  RefetchPolicy

	// bannerSeq identifies the current success banner so stale timers are ignored.
	bannerSeq int
}

// Settings seed a new State.
type Settings struct {
	// PageSize is the initial rows per page; 0 means pager.All.
	PageSize int
	Policy   RefetchPolicy
}

// NewState returns the initial state: no records, first page, empty selection, loading.
func NewState(s Settings) State {
	cur := pager.Default()
	if s.PageSize != 0 && pager.ValidSize(s.PageSize) {
		cur.PageSize = s.PageSize
	}
	return State{
		Records: []model.Developer{},
		Cursor:  cur,
		Loading: true,
		Policy:  s.Policy,
	}
}

// BannerSeq returns the sequence number of the current success banner.
func (s State) BannerSeq() int { return s.bannerSeq }

// Visible is the slice of records shown for the current cursor.
func (s State) Visible() []model.Developer { return pager.Visible(s.Records, s.Cursor) }

// Padding is the number of filler rows after the visible slice.
func (s State) Padding() int { return pager.Padding(len(s.Records), s.Cursor) }

// FieldError returns the validation message for field, or "".
func (s State) FieldError(field string) string {
	for _, fe := range s.FieldErrors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Editing reports whether the form holds an existing record.
func (s State) Editing() bool { return !s.Selection.ID.IsZero() }

// Update applies ev to s.
func Update(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Load, Refresh:
		return s, []Effect{FetchList{}}

	case ListLoaded:
		recs := ev.Records
		if recs == nil {
			recs = []model.Developer{}
		}
		s.Records = recs
		s.Loading = false
		return s, nil

	case ListFailed:
		s.Error = Banner{Open: true, Message: errMessage(ev.Err)}
		return s, nil

	case SelectForEdit:
		s.Selection = model.FormFrom(ev.Record)
		s.FieldErrors = nil
		return s, nil

	case EditField:
		if !s.Selection.Set(ev.Field, ev.Value) {
			return s, nil
		}
		s.FieldErrors = withoutField(s.FieldErrors, ev.Field)
		return s, nil

	case ClearSelection:
		s.Selection = model.Form{}
		s.FieldErrors = nil
		return s, nil

	case Submit:
		if errs := model.Validate(s.Selection); len(errs) > 0 {
			s.FieldErrors = errs
			return s, nil
		}
		s.FieldErrors = nil
		rec, err := s.Selection.Developer()
		if err != nil {
			// Validate already accepted the form, so this is unreachable in practice.
			s.FieldErrors = []model.FieldError{{Field: model.FieldAge, Message: model.MsgNumericOnly}}
			return s, nil
		}
		if s.Editing() {
			return s, []Effect{UpdateRecord{Record: rec, ID: s.Selection.ID}}
		}
		return s, []Effect{CreateRecord{Record: rec}}

	case SubmitDone:
		s.Outcome = outcome(ev.Op, ev.Response, ev.Err)
		if ev.Err != nil {
			s.Error = Banner{Open: true, Message: errMessage(ev.Err)}
			return s, nil
		}
		if err := api.Expect(ev.Op, ev.Response); err != nil {
			s.Error = Banner{Open: true, Message: errMessage(err)}
			return s, nil
		}
		s.Selection = model.Form{}
		s.FieldErrors = nil
		effs := s.showSuccess()
		if s.Policy == RefetchImmediately {
			effs = append([]Effect{FetchList{}}, effs...)
		}
		return s, effs

	case RequestDelete:
		s.Selection = model.FormFrom(ev.Record)
		s.FieldErrors = nil
		s.ModalOpen = true
		return s, nil

	case ConfirmDelete:
		if !s.ModalOpen {
			return s, nil
		}
		if s.Selection.ID.IsZero() {
			s.ModalOpen = false
			return s, nil
		}
		return s, []Effect{DeleteRecord{ID: s.Selection.ID}}

	case CancelDelete:
		s.ModalOpen = false
		return s, nil

	case DeleteDone:
		s.Outcome = outcome(api.OpDelete, ev.Response, ev.Err)
		s.ModalOpen = false
		if ev.Err != nil {
			s.Error = Banner{Open: true, Message: errMessage(ev.Err)}
			return s, nil
		}
		if err := api.Expect(api.OpDelete, ev.Response); err != nil {
			s.Error = Banner{Open: true, Message: errMessage(err)}
			return s, nil
		}
		s.Selection = model.Form{}
		s.FieldErrors = nil
		return s, append([]Effect{FetchList{}}, s.showSuccess()...)

	case ChangePage:
		s.Cursor = s.Cursor.WithPage(ev.Page)
		return s, nil

	case ChangePageSize:
		s.Cursor = s.Cursor.WithPageSize(ev.Size)
		return s, nil

	case BannerExpired:
		if ev.Seq != s.bannerSeq || !s.SuccessBanner {
			return s, nil
		}
		s.SuccessBanner = false
		if s.Policy == RefetchOnBannerClear {
			return s, []Effect{FetchList{}}
		}
		return s, nil

	case DismissSuccess:
		s.SuccessBanner = false
		return s, nil

	case DismissError:
		s.Error = Banner{}
		return s, nil
	}
	return s, nil
}

func (s *State) showSuccess() []Effect {
	s.SuccessBanner = true
	s.bannerSeq++
	return []Effect{StartBannerTimer{Seq: s.bannerSeq}}
}

func outcome(op string, resp api.Response, err error) *Outcome {
	o := &Outcome{Op: op, Status: resp.Status, Message: resp.Message, Body: resp.Body}
	if err != nil {
		o.Message = errMessage(err)
		return o
	}
	o.OK = resp.OK(op)
	return o
}

func withoutField(errs []model.FieldError, field string) []model.FieldError {
	if len(errs) == 0 {
		return errs
	}
	out := make([]model.FieldError, 0, len(errs))
	for _, fe := range errs {
		if fe.Field != field {
			out = append(out, fe)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}
