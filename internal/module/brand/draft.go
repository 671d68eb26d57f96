package brand

import (
	"strings"
	"time"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
)

// Draft is the brand form.
type Draft struct {
	Name        string `form:"name" label:"Name" validate:"required,max=150"`
	Description string `form:"description" label:"Description" validate:"required,max=1000"`
	Image       string `form:"image" label:"Image" validate:"max=500"`
	Active      bool   `form:"active"`
}

// Hydrate fills the draft from a fetched brand.
func (d *Draft) Hydrate(b domain.Brand) {
	d.Name = b.Name
	d.Description = b.Description
	d.Image = b.Image
	d.Active = b.Active
}

// Payload builds the brand to send. On update the server-owned fields of
// orig are kept.
func (d *Draft) Payload(orig *domain.Brand, now time.Time) domain.Brand {
	var b domain.Brand
	if orig != nil {
		b = *orig
	} else {
		b.CreatedDate = now
	}
	b.Name = strings.TrimSpace(d.Name)
	b.Description = strings.TrimSpace(d.Description)
	b.Image = d.Image
	b.Active = d.Active
	b.UpdatedDate = now
	return b
}

// Validate checks the field rules.
func (d *Draft) Validate() form.FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	return form.Validate(d)
}

func (d *Draft) ImageRef() string       { return d.Image }
func (d *Draft) SetImageRef(ref string) { d.Image = ref }
