package domain

type Status int

const (
	StatusDraft     Status = 1
	StatusPublished Status = 2
)

func (s Status) String() string {
	if s == StatusPublished {
		return "published"
	}
	return "draft"
}

// Property is the aggregate a host edits one section at a time.
type Property struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	HostID      string   `json:"hostId"`
	Status      Status   `json:"status"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	ZipCode     string   `json:"zipCode,omitempty"`
	Images      []string `json:"images,omitempty"`

	Sections

	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

func (p *Property) IsPublished() bool { return p != nil && p.Status == StatusPublished }

// PropertyPatch is a partial update. Nil fields are left untouched; a
// present section replaces the stored one whole.
type PropertyPatch struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=4000"`
	Address     *string   `json:"address,omitempty" validate:"omitempty,max=200"`
	City        *string   `json:"city,omitempty" validate:"omitempty,max=100"`
	Country     *string   `json:"country,omitempty" validate:"omitempty,max=100"`
	ZipCode     *string   `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,max=30,dive,url"`

	Sections
}

// Empty reports whether the patch carries nothing to apply.
func (p PropertyPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil && p.City == nil &&
		p.Country == nil && p.ZipCode == nil && p.Images == nil && p.Sections.Empty()
}

func (p *Property) Apply(patch PropertyPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.ZipCode != nil {
		p.ZipCode = *patch.ZipCode
	}
	if patch.Images != nil {
		p.Images = append([]string(nil), (*patch.Images)...)
	}
	p.Sections.merge(patch.Sections)
}
