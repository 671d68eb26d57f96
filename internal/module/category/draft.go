package category

import (
	"strings"
	"time"

	"github.com/Thutra02/mypham-fe/internal/domain"
	"github.com/Thutra02/mypham-fe/internal/form"
)

// Draft is the category form.
type Draft struct {
	Name        string `form:"name" label:"Name" validate:"required,max=150"`
	Description string `form:"description" label:"Description" validate:"max=1000"`
	Image       string `form:"image" label:"Image" validate:"max=500"`
	Active      bool   `form:"active"`
}

// Hydrate fills the draft from a fetched category.
func (d *Draft) Hydrate(c domain.Category) {
	d.Name, d.Description, d.Image, d.Active = c.Name, c.Description, c.Image, c.Active
}

// Payload builds the category to send.
func (d *Draft) Payload(orig *domain.Category, now time.Time) domain.Category {
	var c domain.Category
	if orig != nil {
		c = *orig
	} else {
		c.CreatedDate = now
	}
	c.Name = strings.TrimSpace(d.Name)
	c.Description = strings.TrimSpace(d.Description)
	c.Image = d.Image
	c.Active = d.Active
	c.UpdatedDate = now
	return c
}

func (d *Draft) Validate() form.FieldErrors {
	d.Name = strings.TrimSpace(d.Name)
	return form.Validate(d)
}

func (d *Draft) ImageRef() string       { return d.Image }
func (d *Draft) SetImageRef(ref string) { d.Image = ref }
