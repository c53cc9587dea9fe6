package publishingapi

import (
	"log/slog"

	"learningcenter/internal/httpapi"
	"learningcenter/internal/logging"
	"learningcenter/internal/publishing"
)

const tutorialsKey = "tutorials"

// TutorialAssembler converts between tutorial resources and entities.
type TutorialAssembler struct {
	logger     *slog.Logger
	categories CategoryAssembler
}

// NewTutorialAssembler returns an assembler that reports non-200 list
// responses through logger.
func NewTutorialAssembler(logger *slog.Logger) TutorialAssembler {
	return TutorialAssembler{
		logger:     logging.NewComponentLogger(logger, "tutorial-assembler"),
		categories: NewCategoryAssembler(logger),
	}
}

// ToEntityFromResource copies every known field of resource into a Tutorial.
// An embedded category object is assembled into a Category; any other value
// under "category" leaves the reference nil.
func (a TutorialAssembler) ToEntityFromResource(resource publishing.Resource) publishing.Tutorial {
	params := publishing.TutorialParams{
		ID:         resource.ID("id"),
		Title:      resource.String("title"),
		Summary:    resource.String("summary"),
		CategoryID: resource.ID("categoryId"),
	}
	if nested, ok := resource.Object("category"); ok {
		params.Category = a.categories.ToEntityFromResource(nested)
	}
	return publishing.NewTutorial(params)
}

// ToEntitiesFromResponse assembles a list response. Non-200 responses are
// logged and yield an empty slice.
func (a TutorialAssembler) ToEntitiesFromResponse(resp *httpapi.Response) ([]publishing.Tutorial, error) {
	resources, ok, err := listResources(resp, tutorialsKey, a.log())
	if err != nil {
		return nil, err
	}
	tutorials := make([]publishing.Tutorial, 0, len(resources))
	if !ok {
		return tutorials, nil
	}
	for _, resource := range resources {
		tutorials = append(tutorials, a.ToEntityFromResource(resource))
	}
	return tutorials, nil
}

// ToEntityFromResponse assembles a single-tutorial response body.
func (a TutorialAssembler) ToEntityFromResponse(resp *httpapi.Response) (publishing.Tutorial, error) {
	resource, err := singleResource(resp, tutorialsKey)
	if err != nil {
		return publishing.Tutorial{}, err
	}
	return a.ToEntityFromResource(resource), nil
}

// ToResourceFromEntity builds the request body for tutorial. The
// denormalized category is never sent; categoryId is the key of record.
func (TutorialAssembler) ToResourceFromEntity(tutorial publishing.Tutorial) publishing.Resource {
	resource := publishing.Resource{}
	if tutorial.Persisted() {
		_ = resource.Set("id", tutorial.ID)
	}
	_ = resource.Set("title", tutorial.Title)
	_ = resource.Set("summary", tutorial.Summary)
	_ = resource.Set("categoryId", tutorial.CategoryID)
	return resource
}

func (a TutorialAssembler) log() *slog.Logger {
	if a.logger == nil {
		return logging.NewNop()
	}
	return a.logger
}
