package store

// ChangeKind names the single mutation an action applied.
type ChangeKind string

const (
	CategoriesReplaced ChangeKind = "categories_replaced"
	CategoryAdded      ChangeKind = "category_added"
	CategoryUpdated    ChangeKind = "category_updated"
	CategoryRemoved    ChangeKind = "category_removed"
	TutorialsReplaced  ChangeKind = "tutorials_replaced"
	TutorialAdded      ChangeKind = "tutorial_added"
	TutorialUpdated    ChangeKind = "tutorial_updated"
	TutorialRemoved    ChangeKind = "tutorial_removed"
	ErrorRecorded      ChangeKind = "error_recorded"
)

// Change describes one applied mutation. Index is the affected collection
// position, or the error log position for ErrorRecorded, and -1 for
// whole-collection replacements. Err is set for ErrorRecorded.
type Change struct {
	Kind      ChangeKind
	Operation string
	Index     int
	Err       error
}
