package publishing

// Tutorial is a piece of learning content filed under a category.
//
// CategoryID is the foreign key of record. Category is an optional
// denormalized copy that callers may fill for display; it is never
// authoritative.
type Tutorial struct {
	ID         ID        `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	CategoryID ID        `json:"categoryId"`
	Category   *Category `json:"category,omitempty"`
}

// TutorialParams carries the optional fields accepted by NewTutorial.
//
// Category accepts a Category or *Category. Any other value, including a nil
// pointer, leaves the tutorial without a category reference.
type TutorialParams struct {
	ID         ID
	Title      string
	Summary    string
	CategoryID ID
	Category   any
}

// NewTutorial builds a Tutorial with defaults for unset fields.
func NewTutorial(params TutorialParams) Tutorial {
	return Tutorial{
		ID:         params.ID,
		Title:      params.Title,
		Summary:    params.Summary,
		CategoryID: params.CategoryID,
		Category:   categoryRef(params.Category),
	}
}

func categoryRef(value any) *Category {
	switch c := value.(type) {
	case Category:
		return &c
	case *Category:
		if c == nil {
			return nil
		}
		cp := *c
		return &cp
	default:
		return nil
	}
}

// Persisted reports whether the server has assigned the tutorial an id.
func (t Tutorial) Persisted() bool { return t.ID.Persisted() }

// WithCategory returns a copy of t referencing category, leaving t untouched.
func (t Tutorial) WithCategory(category *Category) Tutorial {
	t.Category = categoryRef(category)
	return t
}
