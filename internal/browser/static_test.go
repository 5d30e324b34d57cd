package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newDirectoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="member-item"><h3>Page One Co</h3></div>
			<a class="next" href="/list?page=2">Next</a>
		</body></html>`)
	})
	mux.HandleFunc("/list2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="member-item"><h3>Page Two Co</h3></div>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStatic_NavigateAndHTML(t *testing.T) {
	srv := newDirectoryServer(t)
	page := NewStatic(DefaultConfig())

	if err := page.Navigate(context.Background(), srv.URL+"/list"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	html, err := page.HTML(context.Background())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(html, "Page One Co") {
		t.Errorf("expected page body, got %q", html)
	}
}

func TestStatic_HTMLBeforeNavigate(t *testing.T) {
	page := NewStatic(DefaultConfig())
	if _, err := page.HTML(context.Background()); err == nil {
		t.Error("expected error before any navigation")
	}
}

func TestStatic_ClickFollowsNextLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a class="next" href="/page2">Next</a>
		</body></html>`)
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>second page</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page := NewStatic(DefaultConfig())
	ctx := context.Background()

	if err := page.Navigate(ctx, srv.URL+"/page1"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	clicked, err := page.Click(ctx, "a.next", "")
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if !clicked {
		t.Fatal("expected next link to be followed")
	}

	html, err := page.HTML(ctx)
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(html, "second page") {
		t.Errorf("expected second page content, got %q", html)
	}
}

func TestStatic_ClickTextFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/p", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/wrong">Previous</a>
			<a href="/right">Next</a>
		</body></html>`)
	})
	mux.HandleFunc("/right", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>right</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page := NewStatic(DefaultConfig())
	ctx := context.Background()

	if err := page.Navigate(ctx, srv.URL+"/p"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	clicked, err := page.Click(ctx, "a", "Next")
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if !clicked {
		t.Fatal("expected text-matched link to be followed")
	}

	html, _ := page.HTML(ctx)
	if !strings.Contains(html, "right") {
		t.Errorf("expected /right content, got %q", html)
	}
}

func TestStatic_ClickSkipsUnusableLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/p", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a class="next disabled" href="/a">Next</a>
			<a class="next" href="#top">Next</a>
			<a class="next" href="javascript:go()">Next</a>
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page := NewStatic(DefaultConfig())
	ctx := context.Background()

	if err := page.Navigate(ctx, srv.URL+"/p"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	clicked, err := page.Click(ctx, "a.next", "")
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if clicked {
		t.Error("disabled, fragment and javascript links should not be followed")
	}
}

func TestStatic_ClickNoMatch(t *testing.T) {
	srv := newDirectoryServer(t)
	page := NewStatic(DefaultConfig())
	ctx := context.Background()

	if err := page.Navigate(ctx, srv.URL+"/list2"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	clicked, err := page.Click(ctx, "a.next", "")
	if err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if clicked {
		t.Error("expected no next control on last page")
	}
}

func TestNew_UnknownMode(t *testing.T) {
	if _, err := New(Mode("bogus"), DefaultConfig()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestNew_StaticMode(t *testing.T) {
	page, err := New(ModeStatic, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := page.(*Static); !ok {
		t.Errorf("expected *Static, got %T", page)
	}
}
