package controller

import (
	"devroster/internal/api"
	"devroster/internal/model"
)

// Event is anything that can move the state machine: user intents and effect completions.
type Event interface{ event() }

// Load starts the initial fetch.
type Load struct{}

// Refresh re-fetches the list on demand.
type Refresh struct{}

// ListLoaded carries a successful list fetch.
type ListLoaded struct{ Records []model.Developer }

// ListFailed carries a failed list fetch.
type ListFailed struct{ Err error }

// SelectForEdit copies a record into the form.
type SelectForEdit struct{ Record model.Developer }

// EditField sets one form field by wire name.
type EditField struct {
	Field string
	Value string
}

// ClearSelection resets the form to the empty record.
type ClearSelection struct{}

// Submit validates the selection and creates or updates it.
type Submit struct{}

// SubmitDone is the completion of a create or update call.
type SubmitDone struct {
	Op       string
	Response api.Response
	Err      error
}

// RequestDelete targets a record and opens the confirmation modal.
type RequestDelete struct{ Record model.Developer }

// ConfirmDelete deletes the selection.
type ConfirmDelete struct{}

// CancelDelete closes the modal.
type CancelDelete struct{}

// DeleteDone is the completion of a delete call.
type DeleteDone struct {
	ID       model.ID
	Response api.Response
	Err      error
}

// ChangePage moves the cursor. No refetch.
type ChangePage struct{ Page int }

// ChangePageSize sets rows per page and rewinds to the first page.
type ChangePageSize struct{ Size int }

// BannerExpired fires when the success banner timer for Seq runs out.
type BannerExpired struct{ Seq int }

// DismissSuccess hides the success banner before its timer fires.
type DismissSuccess struct{}

// DismissError closes the error banner.
type DismissError struct{}

func (Load) event()           {}
func (Refresh) event()        {}
func (ListLoaded) event()     {}
func (ListFailed) event()     {}
func (SelectForEdit) event()  {}
func (EditField) event()      {}
func (ClearSelection) event() {}
func (Submit) event()         {}
func (SubmitDone) event()     {}
func (RequestDelete) event()  {}
func (ConfirmDelete) event()  {}
func (CancelDelete) event()   {}
func (DeleteDone) event()     {}
func (ChangePage) event()     {}
func (ChangePageSize) event() {}
func (BannerExpired) event()  {}
func (DismissSuccess) event() {}
func (DismissError) event()   {}

// Effect is work the state machine asks its driver to perform.
type Effect interface{ effect() }

// FetchList asks for the full collection.
type FetchList struct{}

// CreateRecord asks the service to create Record.
type CreateRecord struct{ Record model.Developer }

// UpdateRecord asks the service to replace the record with ID.
type UpdateRecord struct {
	Record model.Developer
	ID     model.ID
}

// DeleteRecord asks the service to delete ID.
type DeleteRecord struct{ ID model.ID }

// StartBannerTimer asks for BannerExpired{Seq} after the banner delay.
type StartBannerTimer struct{ Seq int }

func (FetchList) effect()        {}
func (CreateRecord) effect()     {}
func (UpdateRecord) effect()     {}
func (DeleteRecord) effect()     {}
func (StartBannerTimer) effect() {}
