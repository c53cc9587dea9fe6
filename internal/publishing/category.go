package publishing

// Category groups tutorials under a named topic.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// CategoryParams carries the optional fields accepted by NewCategory.
type CategoryParams struct {
	ID   ID
	Name string
}

// NewCategory builds a Category; unset fields keep their defaults (null id, empty name).
func NewCategory(params CategoryParams) Category {
	return Category{ID: params.ID, Name: params.Name}
}

// Persisted reports whether the server has assigned the category an id.
func (c Category) Persisted() bool { return c.ID.Persisted() }
