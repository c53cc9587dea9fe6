package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"learningcenter/internal/logging"
	"learningcenter/internal/publishing"
	"learningcenter/internal/services"
)

const (
	opFetchCategories = "fetch_categories"
	opAddCategory     = "add_category"
	opUpdateCategory  = "update_category"
	opDeleteCategory  = "delete_category"
	opFetchTutorials  = "fetch_tutorials"
	opAddTutorial     = "add_tutorial"
	opUpdateTutorial  = "update_tutorial"
	opDeleteTutorial  = "delete_tutorial"
)

// run starts fn on its own goroutine. A returned error is appended to the
// error log; fn is responsible for applying its mutation on success.
func (s *Store) run(ctx context.Context, resource, operation string, fn func(context.Context, *slog.Logger) error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithResource(ctx, resource)
	ctx = services.WithOperation(ctx, operation)
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, s.logger)

	seq := s.flight.begin()
	go func() {
		defer s.flight.done(seq)
		if err := fn(ctx, logger); err != nil {
			err = fmt.Errorf("%s: %w", operation, err)
			logger.Warn("publishing action failed",
				logging.String("error_kind", services.Classify(err)),
				logging.Error(err),
			)
			s.recordError(operation, err)
		}
	}()
}

// FetchCategories replaces the categories with the server's list and marks
// them loaded.
func (s *Store) FetchCategories(ctx context.Context) {
	s.run(ctx, "categories", opFetchCategories, func(ctx context.Context, logger *slog.Logger) error {
		resp, err := s.api.GetCategories(ctx)
		if err != nil {
			return err
		}
		categories, err := s.categories.ToEntitiesFromResponse(resp)
		if err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			st.Categories = categories
			st.CategoriesLoaded = true
			return Change{Kind: CategoriesReplaced, Operation: opFetchCategories, Index: -1}, true
		})
		logger.Info("categories loaded", logging.Int("count", len(categories)))
		return nil
	})
}

// AddCategory creates category on the server and appends the stored result.
func (s *Store) AddCategory(ctx context.Context, category publishing.Category) {
	s.run(ctx, "categories", opAddCategory, func(ctx context.Context, logger *slog.Logger) error {
		resp, err := s.api.CreateCategory(ctx, s.categories.ToResourceFromEntity(category))
		if err != nil {
			return err
		}
		created, err := s.categories.ToEntityFromResponse(resp)
		if err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			st.Categories = append(st.Categories, created)
			return Change{Kind: CategoryAdded, Operation: opAddCategory, Index: len(st.Categories) - 1}, true
		})
		logger.Info("category added", logging.String("id", created.ID.String()))
		return nil
	})
}

// UpdateCategory sends category to the server and replaces the local entry
// matching the returned id. A missing local entry is left alone.
func (s *Store) UpdateCategory(ctx context.Context, category publishing.Category) {
	s.run(ctx, "categories", opUpdateCategory, func(ctx context.Context, logger *slog.Logger) error {
		resp, err := s.api.UpdateCategory(ctx, category.ID, s.categories.ToResourceFromEntity(category))
		if err != nil {
			return err
		}
		updated, err := s.categories.ToEntityFromResponse(resp)
		if err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			idx := findCategory(st.Categories, updated.ID)
			if idx < 0 {
				return Change{}, false
			}
			st.Categories[idx] = updated
			return Change{Kind: CategoryUpdated, Operation: opUpdateCategory, Index: idx}, true
		})
		logger.Info("category updated", logging.String("id", updated.ID.String()))
		return nil
	})
}

// DeleteCategory removes category on the server, then locally by id.
func (s *Store) DeleteCategory(ctx context.Context, category publishing.Category) {
	s.run(ctx, "categories", opDeleteCategory, func(ctx context.Context, logger *slog.Logger) error {
		if _, err := s.api.DeleteCategory(ctx, category.ID); err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			idx := findCategory(st.Categories, category.ID)
			if idx < 0 {
				return Change{}, false
			}
			st.Categories = append(st.Categories[:idx:idx], st.Categories[idx+1:]...)
			return Change{Kind: CategoryRemoved, Operation: opDeleteCategory, Index: idx}, true
		})
		logger.Info("category deleted", logging.String("id", category.ID.String()))
		return nil
	})
}

// FetchTutorials replaces the tutorials with the server's list and marks
// them loaded.
func (s *Store) FetchTutorials(ctx context.Context) {
	s.run(ctx, "tutorials", opFetchTutorials, func(ctx context.Context, logger *slog.Logger) error {
		resp, err := s.api.GetTutorials(ctx)
		if err != nil {
			return err
		}
		tutorials, err := s.tutorials.ToEntitiesFromResponse(resp)
		if err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			st.Tutorials = tutorials
			st.TutorialsLoaded = true
			return Change{Kind: TutorialsReplaced, Operation: opFetchTutorials, Index: -1}, true
		})
		logger.Info("tutorials loaded", logging.Int("count", len(tutorials)))
		return nil
	})
}

// AddTutorial creates tutorial on the server and appends the stored result.
func (s *Store) AddTutorial(ctx context.Context, tutorial publishing.Tutorial) {
	s.run(ctx, "tutorials", opAddTutorial, func(ctx context.Context, logger *slog.Logger) error {
		resp, err := s.api.CreateTutorial(ctx, s.tutorials.ToResourceFromEntity(tutorial))
		if err != nil {
			return err
		}
		created, err := s.tutorials.ToEntityFromResponse(resp)
		if err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			st.Tutorials = append(st.Tutorials, created)
			return Change{Kind: TutorialAdded, Operation: opAddTutorial, Index: len(st.Tutorials) - 1}, true
		})
		logger.Info("tutorial added", logging.String("id", created.ID.String()))
		return nil
	})
}

// UpdateTutorial sends tutorial to the server and replaces the local entry
// matching the returned id. A missing local entry is left alone.
func (s *Store) UpdateTutorial(ctx context.Context, tutorial publishing.Tutorial) {
	s.run(ctx, "tutorials", opUpdateTutorial, func(ctx context.Context, logger *slog.Logger) error {
		resp, err := s.api.UpdateTutorial(ctx, tutorial.ID, s.tutorials.ToResourceFromEntity(tutorial))
		if err != nil {
			return err
		}
		updated, err := s.tutorials.ToEntityFromResponse(resp)
		if err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			idx := findTutorial(st.Tutorials, updated.ID)
			if idx < 0 {
				return Change{}, false
			}
			st.Tutorials[idx] = updated
			return Change{Kind: TutorialUpdated, Operation: opUpdateTutorial, Index: idx}, true
		})
		logger.Info("tutorial updated", logging.String("id", updated.ID.String()))
		return nil
	})
}

// DeleteTutorial removes tutorial on the server, then locally by id.
func (s *Store) DeleteTutorial(ctx context.Context, tutorial publishing.Tutorial) {
	s.run(ctx, "tutorials", opDeleteTutorial, func(ctx context.Context, logger *slog.Logger) error {
		if _, err := s.api.DeleteTutorial(ctx, tutorial.ID); err != nil {
			return err
		}
		s.apply(func(st *State) (Change, bool) {
			idx := findTutorial(st.Tutorials, tutorial.ID)
			if idx < 0 {
				return Change{}, false
			}
			st.Tutorials = append(st.Tutorials[:idx:idx], st.Tutorials[idx+1:]...)
			return Change{Kind: TutorialRemoved, Operation: opDeleteTutorial, Index: idx}, true
		})
		logger.Info("tutorial deleted", logging.String("id", tutorial.ID.String()))
		return nil
	})
}
