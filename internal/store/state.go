package store

import "learningcenter/internal/publishing"

// State is a point-in-time copy of the store contents.
type State struct {
	Categories       []publishing.Category
	Tutorials        []publishing.Tutorial
	Errors           []error
	CategoriesLoaded bool
	TutorialsLoaded  bool
}

// CategoriesCount is the number of categories held.
func (s State) CategoriesCount() int { return len(s.Categories) }

// TutorialsCount is the number of tutorials held.
func (s State) TutorialsCount() int { return len(s.Tutorials) }

func (s State) clone() State {
	out := State{
		Categories:       append([]publishing.Category(nil), s.Categories...),
		Tutorials:        make([]publishing.Tutorial, len(s.Tutorials)),
		Errors:           append([]error(nil), s.Errors...),
		CategoriesLoaded: s.CategoriesLoaded,
		TutorialsLoaded:  s.TutorialsLoaded,
	}
	for i, t := range s.Tutorials {
		out.Tutorials[i] = t.WithCategory(t.Category)
	}
	return out
}

func findCategory(categories []publishing.Category, id publishing.ID) int {
	if !id.Persisted() {
		return -1
	}
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func findTutorial(tutorials []publishing.Tutorial, id publishing.ID) int {
	if !id.Persisted() {
		return -1
	}
	for i, t := range tutorials {
		if t.ID == id {
			return i
		}
	}
	return -1
}
