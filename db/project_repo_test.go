package db

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/tfkr-ae/foundry/domain"
)

func TestProjectRepo_GetProjects(t *testing.T) {
	t.Run("should return 0 projects if there are none", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		got, err := repo.GetProjects()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", len(got))
		}
	})

	t.Run("should order projects newest year first", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		testProject(t, repo, "dam", 2019)
		testProject(t, repo, "refinery", 2024)
		testProject(t, repo, "bridge", 2021)

		got, err := repo.GetProjects()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := []string{"refinery", "bridge", "dam"}
		var titles []string
		for _, p := range got {
			titles = append(titles, p.Title)
		}
		if !reflect.DeepEqual(want, titles) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, titles)
		}
	})
}

func TestProjectRepo_CRUD(t *testing.T) {
	repo, teardown := setupTestDB(t)
	defer teardown()

	id := testProject(t, repo, "dam", 2019)

	t.Run("should get the created project", func(t *testing.T) {
		got, err := repo.GetProject(id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		want := []string{"/img/dam.jpg"}
		if !reflect.DeepEqual(want, got.ImageURLs) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got.ImageURLs)
		}
	})

	t.Run("should update the project", func(t *testing.T) {
		update := &domain.Project{Title: "Dam gates", Year: 2020, ImageURLs: []string{"/a.jpg", "/b.jpg"}}
		if err := repo.UpdateProject(id, update); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := repo.GetProject(id)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.Title != "Dam gates" || got.Year != 2020 || len(got.ImageURLs) != 2 {
			t.Fatalf("\nwanted:\nupdated project\ngot:\n%+v", got)
		}
	})

	t.Run("should delete the project", func(t *testing.T) {
		if err := repo.DeleteProject(id); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if _, err := repo.GetProject(id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})

	t.Run("should return ErrNotFound when updating a missing project", func(t *testing.T) {
		err := repo.UpdateProject(uuid.New(), &domain.Project{Title: "x"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})
}

func TestProjectRepo_LinkCategoryToProject(t *testing.T) {
	t.Run("should link and list categories", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		projectID := testProject(t, repo, "dam", 2019)
		valves := testCategory(t, repo, "Valves")
		gates := testCategory(t, repo, "Gates")

		for _, categoryID := range []uuid.UUID{valves, gates, valves} {
			if err := repo.LinkCategoryToProject(categoryID, projectID); err != nil {
				t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
			}
		}

		got, err := repo.GetProjectCategories(projectID)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(got) != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", len(got))
		}
	})

	t.Run("should return ErrNotFound for a missing category", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		projectID := testProject(t, repo, "dam", 2019)
		err := repo.LinkCategoryToProject(uuid.New(), projectID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})

	t.Run("should drop links when the project is deleted", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		projectID := testProject(t, repo, "dam", 2019)
		categoryID := testCategory(t, repo, "Valves")
		if err := repo.LinkCategoryToProject(categoryID, projectID); err != nil {
			t.Fatalf("linking: %v", err)
		}
		if err := repo.DeleteProject(projectID); err != nil {
			t.Fatalf("deleting project: %v", err)
		}

		var count int
		if err := repo.dbConn.Get(&count, `SELECT COUNT(*) FROM project_category`); err != nil {
			t.Fatalf("counting links: %v", err)
		}
		if count != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", count)
		}
	})
}
