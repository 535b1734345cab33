package foundry

import (
	"strings"
	"testing"

	"github.com/tfkr-ae/foundry/domain"
)

const testFixtures = `
settings:
  company_name: Gulf Castings
  email: sales@gulfcastings.example
categories:
  - name: Valve Bodies
    subcategories:
      - name: Gate valves
        image_url: /img/gate.jpg
  - name: Pump Casings
    slug: pumps
projects:
  - title: Desalination plant
    year: 2023
    image_urls: [/img/p1.jpg]
    categories: [valve-bodies, pumps]
leaders:
  - name: R. Haddad
    role: Managing Director
logos:
  - kind: Client
    name: Water Authority
    image_url: /img/wa.svg
  - kind: certification
    name: ISO 9001
    image_url: /img/iso.svg
`

func TestLoadFixtures(t *testing.T) {
	t.Run("should reject unknown keys", func(t *testing.T) {
		_, err := LoadFixtures(strings.NewReader("categories:\n  - name: Bells\n    colour: bronze\n"))
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})

	t.Run("should accept an empty document", func(t *testing.T) {
		fixtures, err := LoadFixtures(strings.NewReader(""))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if fixtures.Settings != nil || len(fixtures.Categories) != 0 {
			t.Fatalf("unexpected fixtures %+v", fixtures)
		}
	})
}

func TestSeed(t *testing.T) {
	t.Run("should store every document", func(t *testing.T) {
		app := newTestApp(t)
		fixtures, err := LoadFixtures(strings.NewReader(testFixtures))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		report, err := app.Seed(fixtures)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		want := SeedReport{Categories: 2, Projects: 1, Leaders: 1, Logos: 2, Settings: true}
		if report != want {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, report)
		}

		category, err := app.Repo.GetCategoryBySlug("valve-bodies")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(category.Subcategories) != 1 || category.Subcategories[0].ImageURL != "/img/gate.jpg" {
			t.Fatalf("unexpected subcategories %+v", category.Subcategories)
		}

		projects, err := app.Repo.GetProjects()
		if err != nil || len(projects) != 1 {
			t.Fatalf("\nwanted:\n1 project\ngot:\n%v %v", projects, err)
		}
		linked, err := app.Repo.GetProjectCategories(projects[0].ID)
		if err != nil || len(linked) != 2 {
			t.Fatalf("\nwanted:\n2 linked categories\ngot:\n%v %v", linked, err)
		}

		clients, err := app.Repo.GetLogosByKind(domain.LogoClient)
		if err != nil || len(clients) != 1 {
			t.Fatalf("\nwanted:\n1 client logo\ngot:\n%v %v", clients, err)
		}

		settings, err := app.Repo.GetSettings()
		if err != nil || settings.CompanyName != "Gulf Castings" {
			t.Fatalf("unexpected settings %+v %v", settings, err)
		}
	})

	t.Run("should stop at the first invalid document", func(t *testing.T) {
		app := newTestApp(t)
		fixtures := &Fixtures{
			Leaders: []LeaderFixture{{Name: "A. Smith", Role: "CFO"}},
			Logos:   []LogoFixture{{Kind: "partner", Name: "Acme", ImageURL: "/acme.svg"}},
		}

		report, err := app.Seed(fixtures)
		if err == nil || !strings.Contains(err.Error(), "logos[0]") {
			t.Fatalf("\nwanted:\nlogos[0] error\ngot:\n%v", err)
		}
		if report.Leaders != 1 || report.Logos != 0 {
			t.Fatalf("unexpected report %+v", report)
		}
	})

	t.Run("should fail on an unknown category slug", func(t *testing.T) {
		app := newTestApp(t)
		fixtures := &Fixtures{
			Projects: []ProjectFixture{{Title: "Dam gates", Year: 2020, Categories: []string{"bells"}}},
		}
		if _, err := app.Seed(fixtures); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}
