package domain

// Dataset is the full persisted state: the flat-file format, the seed
// format and the CLI import/export format.
type Dataset struct {
	Categories []Category `json:"categories,omitempty"`
	Links      []Link     `json:"links"`
	Users      []User     `json:"users,omitempty"`
}

// Clone deep-copies the slices so callers can mutate freely.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	return &Dataset{
		Categories: append([]Category(nil), d.Categories...),
		Links:      append([]Link(nil), d.Links...),
		Users:      append([]User(nil), d.Users...),
	}
}

// CategoryList returns the dataset's categories, or the defaults when the
// dataset carries none.
func (d *Dataset) CategoryList() []Category {
	if d == nil || len(d.Categories) == 0 {
		return DefaultCategories()
	}
	return append([]Category(nil), d.Categories...)
}
