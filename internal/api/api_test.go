package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

type nullNavigator struct{}

func (nullNavigator) ToLogin(string) {}

// fixture wires an authenticated client against a fake backend mux.
type fixture struct {
	mux    *http.ServeMux
	server *httptest.Server
	client *client.Client
	store  tokenstore.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{mux: http.NewServeMux()}
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)

	f.store = tokenstore.NewMemory()
	_ = f.store.SetToken("test-token")
	f.client = client.New(&client.Config{BaseURL: f.server.URL}, f.store, nullNavigator{}, logger.Get())
	return f
}

func envelope(data any) map[string]any {
	return map[string]any{"isSuccess": true, "message": "", "data": data}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func TestChapterAPI_List(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("GET /Chapter", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, envelope(map[string]any{"values": []map[string]any{
			{"id": "c-1", "name": "Mechanics"},
			{"id": "c-2", "name": "Optics"},
		}}))
	})

	chapters, err := NewChapterAPI(f.client).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(chapters) != 2 || chapters[0].Name != "Mechanics" {
		t.Errorf("List() = %+v, want 2 chapters starting with Mechanics", chapters)
	}
}

func TestTopicAPI_ListBuildsQueryAndUnwrapsPage(t *testing.T) {
	f := newFixture(t)
	var gotQuery string
	f.mux.HandleFunc("GET /Topics", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, envelope(map[string]any{
			"items":           map[string]any{"values": []map[string]any{{"id": "t-1", "name": "Kinematics"}}},
			"pageNumber":      2,
			"totalPages":      5,
			"totalCount":      42,
			"hasPreviousPage": true,
			"hasNextPage":     true,
		}))
	})

	page, err := NewTopicAPI(f.client).List(context.Background(), TopicListParams{
		ChapterID:  "c-1",
		PageNumber: 2,
		PageSize:   10,
		SearchTerm: "kine",
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	for _, want := range []string{"chapterId=c-1", "pageNumber=2", "pageSize=10", "searchTerm=kine"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if len(page.Topics) != 1 || page.Topics[0].Name != "Kinematics" {
		t.Errorf("Topics = %+v, want one Kinematics topic", page.Topics)
	}
	if page.PageNumber != 2 || page.TotalPages != 5 || page.TotalCount != 42 {
		t.Errorf("page fields = %+v, want (2, 5, 42)", page)
	}
	if !page.HasPreviousPage || !page.HasNextPage {
		t.Error("page navigation flags were not preserved")
	}
}

func TestExamAPI_GenerateBackfillsNames(t *testing.T) {
	f := newFixture(t)
	var chapterLookups atomic.Int32

	f.mux.HandleFunc("POST /ExamSets/generate-from-dropdown", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, envelope(map[string]any{
			"id": "e-1", "name": "Midterm", "chapterId": "c-1", "topicId": "t-1",
		}))
	})
	f.mux.HandleFunc("GET /Chapter/c-1", func(w http.ResponseWriter, r *http.Request) {
		chapterLookups.Add(1)
		writeJSON(w, envelope(map[string]any{"id": "c-1", "name": "Mechanics"}))
	})
	f.mux.HandleFunc("GET /Topics/t-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, envelope(map[string]any{"id": "t-1", "name": "Kinematics", "chapterId": "c-1"}))
	})

	examAPI := NewExamAPI(f.client, NewChapterAPI(f.client), NewTopicAPI(f.client), logger.Get())
	exam, err := examAPI.GenerateFromSelection(context.Background(), &GenerateFromSelectionRequest{
		Name: "Midterm", ChapterID: "c-1", TopicID: "t-1", QuestionCount: 20,
	})
	if err != nil {
		t.Fatalf("GenerateFromSelection() error = %v", err)
	}

	if exam.ChapterName != "Mechanics" {
		t.Errorf("ChapterName = %q, want back-filled Mechanics", exam.ChapterName)
	}
	if exam.TopicName != "Kinematics" {
		t.Errorf("TopicName = %q, want back-filled Kinematics", exam.TopicName)
	}
	if chapterLookups.Load() != 1 {
		t.Errorf("chapter lookups = %d, want 1", chapterLookups.Load())
	}
}

func TestExamAPI_GetSkipsBackfillWhenNamesPresent(t *testing.T) {
	f := newFixture(t)
	var lookups atomic.Int32

	f.mux.HandleFunc("GET /ExamSets/e-2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, envelope(map[string]any{
			"id": "e-2", "name": "Final",
			"chapterId": "c-1", "chapterName": "Mechanics",
			"topicId": "t-1", "topicName": "Kinematics",
		}))
	})
	f.mux.HandleFunc("GET /Chapter/", func(w http.ResponseWriter, r *http.Request) { lookups.Add(1) })
	f.mux.HandleFunc("GET /Topics/", func(w http.ResponseWriter, r *http.Request) { lookups.Add(1) })

	examAPI := NewExamAPI(f.client, NewChapterAPI(f.client), NewTopicAPI(f.client), logger.Get())
	exam, err := examAPI.Get(context.Background(), "e-2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if exam.ChapterName != "Mechanics" || exam.TopicName != "Kinematics" {
		t.Errorf("names = (%q, %q), want passthrough", exam.ChapterName, exam.TopicName)
	}
	if lookups.Load() != 0 {
		t.Errorf("secondary lookups = %d, want 0", lookups.Load())
	}
}

func TestExamAPI_ListByCurrentUser(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("GET /ExamSets/get-by-current-user", func(w http.ResponseWriter, r *http.Request) {
		// The backend's reference-handling serializer shape.
		writeJSON(w, envelope(map[string]any{"$values": []map[string]any{
			{"id": "e-1", "name": "Midterm"},
			{"id": "e-2", "name": "Final"},
		}}))
	})

	examAPI := NewExamAPI(f.client, NewChapterAPI(f.client), NewTopicAPI(f.client), logger.Get())
	exams, err := examAPI.ListByCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("ListByCurrentUser() error = %v", err)
	}
	if len(exams) != 2 || exams[1].Name != "Final" {
		t.Errorf("exams = %+v, want 2 entries ending with Final", exams)
	}
}

func TestExamAPI_DeleteUnwrapsEnvelopeFailure(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("DELETE /ExamSets/e-9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"isSuccess": false, "message": "exam set is locked"})
	})

	examAPI := NewExamAPI(f.client, NewChapterAPI(f.client), NewTopicAPI(f.client), logger.Get())
	err := examAPI.Delete(context.Background(), "e-9")
	if err == nil || err.Error() != "exam set is locked" {
		t.Errorf("Delete() error = %v, want backend message", err)
	}
}

func TestQuestionAPI_ProcessImage(t *testing.T) {
	f := newFixture(t)
	var gotFilename string
	var mu sync.Mutex
	f.mux.HandleFunc("POST /Questions/process-image", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		mu.Lock()
		gotFilename = header.Filename
		mu.Unlock()
		writeJSON(w, envelope(map[string]any{"values": []map[string]any{
			{"id": "q-1", "content": "A ball is thrown upward..."},
		}}))
	})

	questions, err := NewQuestionAPI(f.client).ProcessImage(context.Background(),
		"scan.png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("ProcessImage() error = %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "q-1" {
		t.Errorf("questions = %+v, want one q-1", questions)
	}
	mu.Lock()
	defer mu.Unlock()
	if gotFilename != "scan.png" {
		t.Errorf("uploaded filename = %q, want scan.png", gotFilename)
	}
}

func TestUserAPI_ListByRole(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("GET /Users/by-role/3", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, envelope(map[string]any{"values": []map[string]any{
			{"id": "u-1", "username": "boss", "role": 3, "isActive": true},
		}}))
	})

	users, err := NewUserAPI(f.client).ListByRole(context.Background(), domain.RoleManager)
	if err != nil {
		t.Fatalf("ListByRole() error = %v", err)
	}
	if len(users) != 1 || users[0].Role != domain.RoleManager {
		t.Errorf("users = %+v, want one manager", users)
	}
}

func TestAPI_UnauthenticatedFailsWithoutNetworkCall(t *testing.T) {
	f := newFixture(t)
	var hits atomic.Int32
	f.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	// Drop the token: every wrapper must fail before the request goes out.
	_ = f.store.Clear()

	if _, err := NewChapterAPI(f.client).List(context.Background()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("ChapterAPI.List() error = %v, want ErrUnauthenticated", err)
	}
	if _, err := NewQuestionAPI(f.client).ProcessImage(context.Background(), "x.png", strings.NewReader("x"), 1); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("ProcessImage() error = %v, want ErrUnauthenticated", err)
	}
	if hits.Load() != 0 {
		t.Errorf("backend hits = %d, want 0", hits.Load())
	}
}
