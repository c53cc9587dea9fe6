package publishingapi

import (
	"context"
	"log/slog"

	"learningcenter/internal/config"
	"learningcenter/internal/httpapi"
	"learningcenter/internal/publishing"
	"learningcenter/internal/services"
)

// PublishingAPI exposes the category and tutorial endpoints. Every method
// returns the raw response; interpretation is left to the assemblers.
type PublishingAPI struct {
	categories *httpapi.Endpoint
	tutorials  *httpapi.Endpoint
}

// New binds the facade to client using the given endpoint paths.
func New(client *httpapi.Client, categoriesPath, tutorialsPath string) *PublishingAPI {
	return &PublishingAPI{
		categories: httpapi.NewEndpoint(client, categoriesPath),
		tutorials:  httpapi.NewEndpoint(client, tutorialsPath),
	}
}

// NewFromConfig builds the HTTP client and facade from the [api] section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*PublishingAPI, error) {
	client, err := httpapi.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(client, cfg.API.CategoriesPath, cfg.API.TutorialsPath), nil
}

func (p *PublishingAPI) GetCategories(ctx context.Context) (*httpapi.Response, error) {
	return p.categories.GetAll(scope(ctx, categoriesKey, "get"))
}

func (p *PublishingAPI) GetCategoryByID(ctx context.Context, id publishing.ID) (*httpapi.Response, error) {
	return p.categories.GetByID(scope(ctx, categoriesKey, "get"), id.String())
}

func (p *PublishingAPI) CreateCategory(ctx context.Context, resource publishing.Resource) (*httpapi.Response, error) {
	return p.categories.Create(scope(ctx, categoriesKey, "create"), resource)
}

// UpdateCategory sends resource to the category identified by id.
func (p *PublishingAPI) UpdateCategory(ctx context.Context, id publishing.ID, resource publishing.Resource) (*httpapi.Response, error) {
	return p.categories.Update(scope(ctx, categoriesKey, "update"), id.String(), resource)
}

func (p *PublishingAPI) DeleteCategory(ctx context.Context, id publishing.ID) (*httpapi.Response, error) {
	return p.categories.Delete(scope(ctx, categoriesKey, "delete"), id.String())
}

func (p *PublishingAPI) GetTutorials(ctx context.Context) (*httpapi.Response, error) {
	return p.tutorials.GetAll(scope(ctx, tutorialsKey, "get"))
}

func (p *PublishingAPI) GetTutorialByID(ctx context.Context, id publishing.ID) (*httpapi.Response, error) {
	return p.tutorials.GetByID(scope(ctx, tutorialsKey, "get"), id.String())
}

func (p *PublishingAPI) CreateTutorial(ctx context.Context, resource publishing.Resource) (*httpapi.Response, error) {
	return p.tutorials.Create(scope(ctx, tutorialsKey, "create"), resource)
}

// UpdateTutorial sends resource to the tutorial identified by id.
func (p *PublishingAPI) UpdateTutorial(ctx context.Context, id publishing.ID, resource publishing.Resource) (*httpapi.Response, error) {
	return p.tutorials.Update(scope(ctx, tutorialsKey, "update"), id.String(), resource)
}

func (p *PublishingAPI) DeleteTutorial(ctx context.Context, id publishing.ID) (*httpapi.Response, error) {
	return p.tutorials.Delete(scope(ctx, tutorialsKey, "delete"), id.String())
}

func scope(ctx context.Context, resource, operation string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithResource(ctx, resource)
	if _, ok := services.OperationFromContext(ctx); !ok {
		ctx = services.WithOperation(ctx, operation)
	}
	return ctx
}
