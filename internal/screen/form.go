package screen

import (
	"context"
	"io"
	"time"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
	"github.com/Thutra02/mypham-fe/internal/store"
)

// Draft is the local, uncommitted copy of one entity's form fields.
type Draft[T any] interface {
	// Hydrate fills the draft from a fetched entity.
	Hydrate(v T)
	// Payload builds the entity to submit. original is nil in create mode.
	Payload(original *T, now time.Time) T
	// Validate returns one message per invalid field.
	Validate() form.FieldErrors
}

// ImageDraft is implemented by drafts that carry a stored-image reference.
type ImageDraft interface {
	ImageRef() string
	SetImageRef(ref string)
}

// Upload is a file selected in the form that has not been stored yet.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// Uploader stores images and resolves the returned reference.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	ResolveImage(ref string) string
}

// FormScreen is the create-or-edit model of one form page.
type FormScreen[T domain.Entity] struct {
	store    *store.Store[T]
	uploader Uploader
	now      func() time.Time
}

// FormOption configures a FormScreen.
type FormOption[T domain.Entity] func(*FormScreen[T])

// WithClock overrides the clock used for timestamps.
func WithClock[T domain.Entity](now func() time.Time) FormOption[T] {
	return func(f *FormScreen[T]) { f.now = now }
}

// NewForm creates a FormScreen over s. uploader may be nil for entities
// without images.
func NewForm[T domain.Entity](s *store.Store[T], uploader Uploader, opts ...FormOption[T]) *FormScreen[T] {
	f := &FormScreen[T]{store: s, uploader: uploader, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load fetches id and hydrates draft from it.
func (f *FormScreen[T]) Load(ctx context.Context, id uint, draft Draft[T]) (T, error) {
	v, err := f.store.FetchByID(ctx, id)
	if err != nil {
		return v, err
	}
	draft.Hydrate(v)
	return v, nil
}

// Submit validates draft, uploads a newly selected image first, then creates
// (id == 0) or updates the entity. Validation errors never reach the network.
// Without a new upload the draft's previous image reference is reused.
func (f *FormScreen[T]) Submit(ctx context.Context, id uint, draft Draft[T], upload *Upload) (T, error) {
	var zero T
	if err := draft.Validate().Err(); err != nil {
		return zero, err
	}

	if upload != nil {
		if err := f.storeImage(ctx, draft, upload); err != nil {
			return zero, err
		}
	}

	if id == 0 {
		return f.store.Create(ctx, draft.Payload(nil, f.now()))
	}

	original, ok := f.store.Current()
	if !ok || original.GetID() != id {
		var err error
		if original, err = f.store.FetchByID(ctx, id); err != nil {
			return zero, err
		}
	}
	return f.store.Update(ctx, draft.Payload(&original, f.now()))
}

func (f *FormScreen[T]) storeImage(ctx context.Context, draft Draft[T], upload *Upload) error {
	img, ok := draft.(ImageDraft)
	if !ok || f.uploader == nil {
		return domain.NewAppError(domain.CodeValidation, "this form does not accept images", nil)
	}
	rc, err := upload.Open()
	if err != nil {
		return domain.NewAppError(domain.CodeValidation, "failed to read selected image", err)
	}
	defer rc.Close()

	path, err := f.uploader.Upload(ctx, upload.Filename, rc)
	if err != nil {
		return err
	}
	img.SetImageRef(f.uploader.ResolveImage(path))
	return nil
}
