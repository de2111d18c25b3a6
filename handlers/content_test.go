package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smartedu/smartedu/backend/go-services/internal/content"
	"github.com/smartedu/smartedu/backend/go-services/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements generation.Client
type fakeClient struct {
	out string
	err error
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

// testAuth stands in for the JWT middleware and always authenticates user-1.
func testAuth(c *gin.Context) {
	c.Set(middleware.ContextUserID, "user-1")
	c.Next()
}

func newContentRouter(gen *fakeClient) (*gin.Engine, *content.Service, *content.Service) {
	notes := content.NewService(content.NewMemoryRepo())
	assignments := content.NewService(content.NewMemoryRepo())
	g := gin.New()
	api := g.Group("/api")
	NewNotesHandler(notes, gen, nil).Register(api, testAuth)
	NewAssignmentsHandler(assignments, gen, nil).Register(api, testAuth)
	return g, notes, assignments
}

func doJSON(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestCreateNote_SplitsCompletionIntoSlides(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "Slide1\n\nSlide2"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Photosynthesis"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.ShareableLink)
	assert.Equal(t, "user-1", doc.OwnerID)
	assert.Equal(t, "Photosynthesis", doc.Topic)
	assert.Empty(t, doc.Tags)
	assert.Empty(t, doc.Versions)

	var slides []string
	require.NoError(t, json.Unmarshal(doc.Body, &slides))
	assert.Equal(t, []string{"Slide1", "Slide2"}, slides)
}

func TestCreateNote_MissingTopic(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "whatever"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"grouping":"Biology"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNote_GenerationFailure(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{err: fmt.Errorf("upstream down")})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Photosynthesis"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestCreateAssignment_ParsesQuestions(t *testing.T) {
	completion := `[{"type":"MCQ","question":"What is 2+2?","options":["3","4"],"answer":"4"},{"type":"descriptive","question":"Explain addition."}]`
	g, _, _ := newContentRouter(&fakeClient{out: completion})

	w := doJSON(g, http.MethodPost, "/api/assignments", `{"topic":"Arithmetic","grouping":"MIT"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	var qs []content.Question
	require.NoError(t, json.Unmarshal(doc.Body, &qs))
	require.Len(t, qs, 2)
	assert.Equal(t, "MCQ", qs[0].Type)
	assert.Equal(t, "4", qs[0].Answer)
}

func TestCreateAssignment_MalformedCompletion(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "sorry, I cannot produce JSON today"})

	w := doJSON(g, http.MethodPost, "/api/assignments", `{"topic":"Arithmetic"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEditNote_ReplacesBodyWithoutTouchingVersions(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A\n\nB"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Cells"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	// snapshot once so there is history to protect
	w = doJSON(g, http.MethodPost, "/api/notes/"+doc.ID+"/versions", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(g, http.MethodPut, "/api/notes/"+doc.ID, `{"body":["C","D","E"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))

	var slides []string
	require.NoError(t, json.Unmarshal(updated.Body, &slides))
	assert.Equal(t, []string{"C", "D", "E"}, slides)

	// the pre-edit snapshot is unchanged
	require.Len(t, updated.Versions, 1)
	var snap []string
	require.NoError(t, json.Unmarshal(updated.Versions[0].Body, &snap))
	assert.Equal(t, []string{"A", "B"}, snap)
}

func TestEditNote_UnknownID(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A"})

	w := doJSON(g, http.MethodPut, "/api/notes/nope", `{"body":["X"]}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditNote_RejectsWrongBodyShape(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A\n\nB"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Cells"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w = doJSON(g, http.MethodPut, "/api/notes/"+doc.ID, `{"body":{"not":"a slide list"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveVersion_NumbersSequentially(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A\n\nB"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Mitosis"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	for i := 1; i <= 3; i++ {
		w = doJSON(g, http.MethodPost, "/api/notes/"+doc.ID+"/versions", "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(g, http.MethodGet, "/api/notes/"+doc.ID+"/versions", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Versions []content.Version `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Versions, 3)
	for i, v := range resp.Versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
}

func TestVersions_UnknownID(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A"})

	w := doJSON(g, http.MethodPost, "/api/notes/nope/versions", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(g, http.MethodGet, "/api/notes/nope/versions", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddTags_Idempotent(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Enzymes"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w = doJSON(g, http.MethodPut, "/api/notes/"+doc.ID+"/tags", `{"tags":["bio","exam"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	// same tags again must not duplicate
	w = doJSON(g, http.MethodPut, "/api/notes/"+doc.ID+"/tags", `{"tags":["bio","exam"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.ElementsMatch(t, []string{"bio", "exam"}, updated.Tags)
}

func TestSearch_SupersetSemantics(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"One"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var first content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Two"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var second content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	doJSON(g, http.MethodPut, "/api/notes/"+first.ID+"/tags", `{"tags":["a","b"]}`)
	doJSON(g, http.MethodPut, "/api/notes/"+second.ID+"/tags", `{"tags":["a"]}`)

	w = doJSON(g, http.MethodPost, "/api/notes/search", `{"tags":["a","b"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var matches []content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, first.ID, matches[0].ID)
}

func TestDownload_ServesPDF(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "Slide1\n\nSlide2"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Osmosis"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w = doJSON(g, http.MethodGet, "/api/notes/"+doc.ID+"/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestDownload_UnknownIDReturnsJSONError(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A"})

	w := doJSON(g, http.MethodGet, "/api/notes/nope/download", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	// a JSON error body, never a partial byte stream
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.False(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestDownload_CorruptStoredBody(t *testing.T) {
	g, notes, _ := newContentRouter(&fakeClient{out: "A\n\nB"})

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Fermentation"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	// corrupt the stored body behind the handler's back
	_, err := notes.EditBody(context.Background(), doc.ID, json.RawMessage(`{"not":"slides"}`))
	require.NoError(t, err)

	w = doJSON(g, http.MethodGet, "/api/notes/"+doc.ID+"/download", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestDownloadAssignment_ServesPDF(t *testing.T) {
	completion := `[{"type":"MCQ","question":"Pick one.","options":["a","b"],"answer":"a"}]`
	g, _, _ := newContentRouter(&fakeClient{out: completion})

	w := doJSON(g, http.MethodPost, "/api/assignments", `{"topic":"Choices"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var doc content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w = doJSON(g, http.MethodGet, "/api/assignments/"+doc.ID+"/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestShare_BypassesAuth(t *testing.T) {
	notes := content.NewService(content.NewMemoryRepo())
	g := gin.New()
	api := g.Group("/api")
	// real middleware: without a token every protected route must 401
	NewNotesHandler(notes, &fakeClient{out: "A"}, nil).Register(api, middleware.AuthMiddleware("share-test-secret"))

	doc, err := notes.Create(context.Background(), "user-1", "Public topic", "", json.RawMessage(`["A"]`))
	require.NoError(t, err)

	w := doJSON(g, http.MethodPost, "/api/notes", `{"topic":"Blocked"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(g, http.MethodGet, "/api/notes/share/"+doc.ShareableLink, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got content.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, doc.ID, got.ID)
}

func TestShare_UnknownLink(t *testing.T) {
	g, _, _ := newContentRouter(&fakeClient{out: "A"})

	w := doJSON(g, http.MethodGet, "/api/notes/share/missing-link", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
