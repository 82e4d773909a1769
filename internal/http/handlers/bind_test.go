package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/bookapi/internal/domain/book"
	"github.com/geocoder89/bookapi/internal/domain/user"
	"github.com/geocoder89/bookapi/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Error   string `json:"error"`
	Details struct {
		JSON   string                `json:"json"`
		Field  string                `json:"field"`
		Fields []handlers.FieldError `json:"fields"`
	} `json:"details"`
}

func bindRouter[T any]() *gin.Engine {
	r := gin.New()
	r.POST("/bind", func(ctx *gin.Context) {
		var req T
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})
	return r
}

func postBind(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, bindErrorResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp bindErrorResponse
	if w.Code != http.StatusCreated {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
		}
	}
	return w, resp
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	r := bindRouter[book.CreateBookRequest]()

	w, resp := postBind(t, r, `{"author":"not-an-id","genre":"also-bad"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}
	if resp.Error != "Invalid request body" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}

	wantRules := map[string]string{
		"title":  "required",
		"author": "objectid",
		"genre":  "objectid",
	}

	found := map[string]handlers.FieldError{}
	for _, fieldErr := range resp.Details.Fields {
		found[fieldErr.Field] = fieldErr
	}

	for field, rule := range wantRules {
		fieldErr, ok := found[field]
		if !ok {
			t.Fatalf("missing field error for %q: %+v", field, resp.Details.Fields)
		}
		if fieldErr.Rule != rule {
			t.Fatalf("field %q rule mismatch: got %q want %q", field, fieldErr.Rule, rule)
		}
		if fieldErr.Message == "" {
			t.Fatalf("field %q should include a non-empty message", field)
		}
	}
}

func TestBindJSON_AcceptsValidObjectIDs(t *testing.T) {
	r := bindRouter[book.CreateBookRequest]()

	w, _ := postBind(t, r, `{"title":"Dune","author":"67f1b6a160b6731321647600"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}
}

func TestBindJSON_UpdateAllowsClearingGenre(t *testing.T) {
	r := bindRouter[book.UpdateBookRequest]()

	if w, _ := postBind(t, r, `{"genre":""}`); w.Code != http.StatusCreated {
		t.Fatalf("empty genre should clear, got %d body=%s", w.Code, w.Body.String())
	}
	w, resp := postBind(t, r, `{"genre":"xyz"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed genre should fail, got %d", w.Code)
	}
	if len(resp.Details.Fields) != 1 || resp.Details.Fields[0].Field != "genre" || resp.Details.Fields[0].Message == "" {
		t.Fatalf("expected one genre field error, got %+v", resp.Details.Fields)
	}
	if w, _ := postBind(t, r, `{"title":""}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty title should fail, got %d", w.Code)
	}
}

func TestBindJSON_TypeMismatchUsesJSONFieldNames(t *testing.T) {
	r := bindRouter[book.CreateBookRequest]()

	w, resp := postBind(t, r, `{"title":"Dune","author":"67f1b6a160b6731321647600","yearPub":1965}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}
	if resp.Details.JSON != "invalid_json_type" {
		t.Fatalf("expected invalid_json_type, got %q", resp.Details.JSON)
	}
	if resp.Details.Field != "yearPub" {
		t.Fatalf("expected detail field to be yearPub, got %q", resp.Details.Field)
	}
	if len(resp.Details.Fields) == 0 || resp.Details.Fields[0].Rule != "type" {
		t.Fatalf("expected a type rule in details.fields, got %+v", resp.Details.Fields)
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	r := bindRouter[book.CreateBookRequest]()

	w, resp := postBind(t, r, `{"title":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if resp.Details.JSON == "" && resp.Error == "" {
		t.Fatalf("expected an error body, got %s", w.Body.String())
	}
}

func TestBindJSON_RegisterFieldsUseJSONNames(t *testing.T) {
	r := bindRouter[user.RegisterRequest]()

	w, resp := postBind(t, r, `{"username":"ab","email":"nope","password":"secret1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	got := map[string]string{}
	for _, fe := range resp.Details.Fields {
		got[fe.Field] = fe.Rule
	}
	if got["username"] != "min" || got["email"] != "email" || len(got) != 2 {
		t.Fatalf("unexpected field errors %+v", resp.Details.Fields)
	}
}
