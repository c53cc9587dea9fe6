package publishingapi

import (
	"log/slog"

	"learningcenter/internal/httpapi"
	"learningcenter/internal/logging"
	"learningcenter/internal/publishing"
)

const categoriesKey = "categories"

// CategoryAssembler converts between category resources and entities.
type CategoryAssembler struct {
	logger *slog.Logger
}

// NewCategoryAssembler returns an assembler that reports non-200 list
// responses through logger.
func NewCategoryAssembler(logger *slog.Logger) CategoryAssembler {
	return CategoryAssembler{logger: logging.NewComponentLogger(logger, "category-assembler")}
}

// ToEntityFromResource copies every known field of resource into a Category.
// Missing or mistyped fields keep their defaults.
func (CategoryAssembler) ToEntityFromResource(resource publishing.Resource) publishing.Category {
	return publishing.NewCategory(publishing.CategoryParams{
		ID:   resource.ID("id"),
		Name: resource.String("name"),
	})
}

// ToEntitiesFromResponse assembles a list response. Non-200 responses are
// logged and yield an empty slice.
func (a CategoryAssembler) ToEntitiesFromResponse(resp *httpapi.Response) ([]publishing.Category, error) {
	resources, ok, err := listResources(resp, categoriesKey, a.log())
	if err != nil {
		return nil, err
	}
	categories := make([]publishing.Category, 0, len(resources))
	if !ok {
		return categories, nil
	}
	for _, resource := range resources {
		categories = append(categories, a.ToEntityFromResource(resource))
	}
	return categories, nil
}

// ToEntityFromResponse assembles a single-category response body.
func (a CategoryAssembler) ToEntityFromResponse(resp *httpapi.Response) (publishing.Category, error) {
	resource, err := singleResource(resp, categoriesKey)
	if err != nil {
		return publishing.Category{}, err
	}
	return a.ToEntityFromResource(resource), nil
}

// ToResourceFromEntity builds the request body for category. An unset id is
// left out so the server assigns one.
func (CategoryAssembler) ToResourceFromEntity(category publishing.Category) publishing.Resource {
	resource := publishing.Resource{}
	if category.Persisted() {
		_ = resource.Set("id", category.ID)
	}
	_ = resource.Set("name", category.Name)
	return resource
}

func (a CategoryAssembler) log() *slog.Logger {
	if a.logger == nil {
		return logging.NewNop()
	}
	return a.logger
}
