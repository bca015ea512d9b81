// AngelaMos | 2026
// public_test.go

package prospect

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newPublicServer(owners ...*Owner) (*httptest.Server, *fakeRepo) {
	svc, repo := newTestService(owners...)
	router := chi.NewRouter()
	NewPublicHandler(svc).RegisterRoutes(router)
	return httptest.NewServer(router), repo
}

func TestShowFormKnownCode(t *testing.T) {
	srv, _ := newPublicServer(activeOwner("i1"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/affiliation/codei1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %s", ct)
	}
}

func TestShowFormUnknownCode(t *testing.T) {
	srv, _ := newPublicServer(activeOwner("i1"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/affiliation/nope1234")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSignupFormPost(t *testing.T) {
	srv, repo := newPublicServer(activeOwner("i1"))
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/affiliation/codei1", url.Values{
		"nom":   {"Moussa"},
		"email": {"moussa@example.com"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}

	if len(repo.byID) != 1 {
		t.Fatalf("prospects stored = %d", len(repo.byID))
	}
	for _, p := range repo.byID {
		if p.InfluenceurID != "i1" || p.Statut != StatutEnAttente {
			t.Errorf("stored prospect = %+v", p)
		}
	}
}

func TestSignupJSON(t *testing.T) {
	srv, _ := newPublicServer(activeOwner("i1"))
	defer srv.Close()

	resp, err := http.Post(
		srv.URL+"/affiliation/codei1",
		"application/json",
		strings.NewReader(`{"nom":"Moussa","email":"moussa@example.com"}`),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("content type = %s", ct)
	}
}

func TestSignupInvalidEmailRerendersForm(t *testing.T) {
	srv, repo := newPublicServer(activeOwner("i1"))
	defer srv.Close()

	resp, err := http.PostForm(srv.URL+"/affiliation/codei1", url.Values{
		"nom":   {"Moussa"},
		"email": {"not-an-email"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(repo.byID) != 0 {
		t.Error("invalid signup was stored")
	}
}

func TestSignupUnknownCodeJSON(t *testing.T) {
	srv, _ := newPublicServer(activeOwner("i1"))
	defer srv.Close()

	resp, err := http.Post(
		srv.URL+"/affiliation/nope1234",
		"application/json",
		strings.NewReader(`{"nom":"Moussa","email":"moussa@example.com"}`),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
