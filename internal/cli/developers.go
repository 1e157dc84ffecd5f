package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"devroster/internal/controller"
	"devroster/internal/model"
	"devroster/internal/pager"

	"github.com/spf13/cobra"
)

// developerRows renders a page of records as a table. Row numbers count within the page.
type developerRows struct {
	recs []model.Developer
}

func (d developerRows) MarshalJSON() ([]byte, error) { return json.Marshal(d.recs) }

func (d developerRows) Headers() []string {
	return []string{"#", "id", "nombre", "edad", "habilidades"}
}

func (d developerRows) Rows() [][]string {
	out := make([][]string, 0, len(d.recs))
	for i, r := range d.recs {
		out = append(out, []string{
			fmt.Sprintf("%d", i+1),
			r.ID.String(),
			r.Name,
			model.FormatAge(r.Age),
			r.Skills,
		})
	}
	return out
}

func newListCmd(app *App) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List developers (one page)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return writeErr(cmd, fmt.Errorf("--page must be at least 1, got %d", page))
			}
			s, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := s.Dispatch(cmd.Context(), controller.ChangePage{Page: page - 1})
			cur := st.Cursor
			n := len(st.Records)

			return writeOut(cmd, app, map[string]any{
				"data": developerRows{recs: st.Visible()},
				"meta": map[string]any{
					"total":    n,
					"page":     cur.Page + 1,
					"pages":    pager.PageCount(n, cur),
					"pageSize": strings.ToLower(pager.SizeLabel(cur.PageSize)),
					"range":    pager.Range(n, cur),
					"padding":  st.Padding(),
				},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one developer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := findDeveloper(s.State(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}
	return cmd
}

type developerFlags struct {
	name, age, skills string
}

func (f *developerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Name (nombre), at least 2 characters")
	cmd.Flags().StringVar(&f.age, "age", "", "Age (edad), numeric; empty leaves it unset")
	cmd.Flags().StringVar(&f.skills, "skills", "", "Skills (habilidades), at least 2 characters")
}

// edits returns the form edits for the flags set on cmd, in form order.
func (f *developerFlags) edits(cmd *cobra.Command) []controller.EditField {
	var out []controller.EditField
	for _, p := range []struct {
		flag, field, value string
	}{
		{"name", model.FieldName, f.name},
		{"age", model.FieldAge, f.age},
		{"skills", model.FieldSkills, f.skills},
	} {
		if cmd.Flags().Changed(p.flag) {
			out = append(out, controller.EditField{Field: p.field, Value: p.value})
		}
	}
	return out
}

// prompt asks for every field whose flag was not given.
func (f *developerFlags) prompt(cmd *cobra.Command) error {
	p := newPrompter()
	for _, q := range []struct {
		flag, field, message string
		dst                  *string
	}{
		{"name", model.FieldName, "Name:", &f.name},
		{"age", model.FieldAge, "Age:", &f.age},
		{"skills", model.FieldSkills, "Skills:", &f.skills},
	} {
		if cmd.Flags().Changed(q.flag) {
			continue
		}
		field := q.field
		v, err := p.Input(q.message, *q.dst, func(s string) error { return model.ValidateField(field, s) })
		if err != nil {
			return err
		}
		*q.dst = v
		if err := cmd.Flags().Set(q.flag, v); err != nil {
			return err
		}
	}
	return nil
}

func newCreateCmd(app *App) *cobra.Command {
	var f developerFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a developer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdinIsTerminal() {
				if err := f.prompt(cmd); err != nil {
					return writeErr(cmd, err)
				}
			}
			s, err := newSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return submit(cmd, app, s, f.edits(cmd))
		},
	}

	f.register(cmd)
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var f developerFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a developer (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := findDeveloper(s.State(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s.Dispatch(cmd.Context(), controller.SelectForEdit{Record: rec})
			return submit(cmd, app, s, f.edits(cmd))
		},
	}

	f.register(cmd)
	return cmd
}

// submit applies edits to the session's form and saves it.
func submit(cmd *cobra.Command, app *App, s *controller.Session, edits []controller.EditField) error {
	for _, e := range edits {
		s.Dispatch(cmd.Context(), e)
	}
	st := s.Dispatch(cmd.Context(), controller.Submit{})
	if len(st.FieldErrors) > 0 {
		return writeErr(cmd, &model.ValidationError{Fields: st.FieldErrors})
	}
	if st.Error.Open {
		return writeErr(cmd, errors.New(st.Error.Message))
	}
	o := st.Outcome
	if o == nil {
		return writeErr(cmd, errors.New("nothing was saved"))
	}

	var data any = json.RawMessage(o.Body)
	var rec model.Developer
	if err := json.Unmarshal(o.Body, &rec); err == nil {
		data = rec
	} else if !json.Valid(o.Body) {
		data = nil
	}
	return writeOut(cmd, app, map[string]any{
		"data": data,
		"meta": map[string]any{"op": o.Op, "status": o.Status, "message": o.Message},
	})
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a developer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := findDeveloper(s.State(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			if !yes {
				if !stdinIsTerminal() {
					return writeErr(cmd, errNeedsConfirmation)
				}
				ok, err := newPrompter().Confirm(fmt.Sprintf("Delete developer: %s ?", rec.Name), false)
				if err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeErr(cmd, errCancelled)
				}
			}

			s.Dispatch(cmd.Context(), controller.RequestDelete{Record: rec})
			st := s.Dispatch(cmd.Context(), controller.ConfirmDelete{})
			if st.Error.Open {
				return writeErr(cmd, errors.New(st.Error.Message))
			}
			status, message := 0, ""
			if st.Outcome != nil {
				status, message = st.Outcome.Status, st.Outcome.Message
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": rec.ID, "message": message},
				"meta": map[string]any{"status": status, "remaining": len(st.Records)},
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func findDeveloper(st controller.State, id string) (model.Developer, error) {
	id = strings.TrimSpace(id)
	rec, ok := model.FindByID(st.Records, model.ID(id))
	if !ok {
		return model.Developer{}, errNotFound("developer", id)
	}
	return rec, nil
}
