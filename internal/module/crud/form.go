package crud

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Thutra02/mypham-fe/internal/apiclient"
	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
	"github.com/Thutra02/mypham-fe/internal/pkg"
	"github.com/Thutra02/mypham-fe/internal/screen"
	"github.com/Thutra02/mypham-fe/internal/session"
)

// formState is what a form render needs besides the layout values.
type formState[T domain.Entity] struct {
	id     uint
	draft  screen.Draft[T]
	errors map[string]string
	msg    string
}

// AddPage renders an empty form.
// GET /admin/<entity>/add
func (h *Handler[T]) AddPage(c *gin.Context) {
	h.renderForm(c, http.StatusOK, h.opts.formTemplate(), formState[T]{draft: h.opts.NewDraft()})
}

// EditPage loads the entity and renders the form hydrated from it.
// GET /admin/<entity>/edit/:id
func (h *Handler[T]) EditPage(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		ErrorPage(c, http.StatusBadRequest)
		return
	}
	w := session.FromContext(c)
	if w == nil {
		ErrorPage(c, http.StatusInternalServerError)
		return
	}

	draft := h.opts.NewDraft()
	if _, err := h.formScreen(w).Load(c.Request.Context(), id, draft); err != nil {
		if domain.IsNotFound(err) {
			ErrorPage(c, http.StatusNotFound)
			return
		}
		h.opts.Logger.WarnContext(c.Request.Context(), "load for edit failed",
			slog.String("entity", h.opts.Name),
			slog.Uint64("id", uint64(id)),
			slog.String("error", err.Error()),
		)
		ErrorPage(c, http.StatusInternalServerError)
		return
	}
	h.renderForm(c, http.StatusOK, h.opts.formTemplate(), formState[T]{id: id, draft: draft})
}

// Create submits a new entity.
// POST /admin/<entity>/add
func (h *Handler[T]) Create(c *gin.Context) {
	h.submit(c, 0)
}

// Update submits changes to an existing entity.
// POST /admin/<entity>/edit/:id
func (h *Handler[T]) Update(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		pkg.ToastOnly(c, "Invalid "+strings.ToLower(h.opts.Singular)+" id", pkg.ToastError)
		return
	}
	h.submit(c, id)
}

func (h *Handler[T]) submit(c *gin.Context, id uint) {
	w := session.FromContext(c)
	if w == nil {
		pkg.ToastOnly(c, "Your session expired, reload the page", pkg.ToastError)
		return
	}

	draft := h.opts.NewDraft()
	if err := c.ShouldBindWith(draft, binding.Form); err != nil {
		slog.DebugContext(c.Request.Context(), "form bind error",
			slog.String("entity", h.opts.Name),
			slog.Any("error", err),
		)
		h.formFailed(c, formState[T]{id: id, draft: draft, msg: "Check the input format"})
		return
	}

	upload, err := formUpload(c)
	if err != nil {
		h.formFailed(c, formState[T]{id: id, draft: draft, msg: "Failed to read the selected image"})
		return
	}

	if _, err := h.formScreen(w).Submit(c.Request.Context(), id, draft, upload); err != nil {
		if !domain.IsValidation(err) {
			h.opts.Logger.WarnContext(c.Request.Context(), "submit failed",
				slog.String("entity", h.opts.Name),
				slog.Uint64("id", uint64(id)),
				slog.String("error", err.Error()),
			)
		}
		h.formFailed(c, formState[T]{
			id:     id,
			draft:  draft,
			errors: domain.FieldErrors(err),
			msg:    pkg.SafeErrorMessage(err, "Save failed, try again later"),
		})
		return
	}

	msg := h.opts.Singular + " created"
	if id != 0 {
		msg = h.opts.Singular + " updated"
	}
	w.SetFlash(msg, pkg.ToastSuccess)
	pkg.SetToast(c, msg, pkg.ToastSuccess)
	pkg.Redirect(c, h.opts.Path)
}

// formFailed re-renders the form with its messages and an error toast. htmx
// requests get the form fragment only.
func (h *Handler[T]) formFailed(c *gin.Context, st formState[T]) {
	pkg.SetToast(c, st.msg, pkg.ToastError)
	name := h.opts.formTemplate()
	if pkg.IsHTMX(c) {
		name = h.opts.formFragment()
	}
	h.renderForm(c, http.StatusOK, name, st)
}

// Validate re-runs the draft rules on every field change and replies with
// out-of-band updates of the per-field messages.
// POST /admin/<entity>/validate
func (h *Handler[T]) Validate(c *gin.Context) {
	draft := h.opts.NewDraft()
	if err := c.ShouldBindWith(draft, binding.Form); err != nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "crud/field-errors.html", gin.H{
		"Fields": form.FieldNames(draft),
		"Errors": draft.Validate(),
	})
}

func (h *Handler[T]) formScreen(w *session.Workspace) *screen.FormScreen[T] {
	return screen.NewForm(h.store(w), h.opts.Uploader)
}

func (h *Handler[T]) renderForm(c *gin.Context, status int, name string, st formState[T]) {
	data, err := h.formData(c.Request.Context())
	if err != nil {
		h.opts.Logger.WarnContext(c.Request.Context(), "form options unavailable",
			slog.String("entity", h.opts.Name),
			slog.String("error", err.Error()),
		)
		if st.msg == "" {
			st.msg = pkg.SafeErrorMessage(err, "Some options could not be loaded")
		}
	}

	action := h.opts.Path + "/add"
	if st.id != 0 {
		action = h.opts.Path + "/edit/" + itoa(st.id)
	}
	errs := st.errors
	if errs == nil {
		errs = map[string]string{}
	}

	data["Title"] = h.opts.Title
	data["Singular"] = h.opts.Singular
	data["Path"] = h.opts.Path
	data["IsEdit"] = st.id != 0
	data["ID"] = st.id
	data["Action"] = action
	data["Draft"] = st.draft
	data["Errors"] = errs
	data["Error"] = st.msg
	if img, ok := st.draft.(screen.ImageDraft); ok && h.opts.Uploader != nil {
		data["ImageURL"] = h.opts.Uploader.ResolveImage(img.ImageRef())
	}
	c.HTML(status, name, View(c, h.opts.Section, data))
}

// formUpload returns the image selected in the form, or nil when no file was
// chosen.
func formUpload(c *gin.Context) (*screen.Upload, error) {
	fh, err := c.FormFile(apiclient.UploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil
	}
	return &screen.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
