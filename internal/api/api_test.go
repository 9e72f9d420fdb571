package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/buildright/matreq/internal/db"
	"github.com/buildright/matreq/internal/model"
	"github.com/buildright/matreq/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create a company and a user.
	ctx := context.Background()
	company, err := store.CreateCompany(ctx, database, "BuildRight Construction")
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if _, err := store.CreateUser(ctx, database, "John Builder", "john@construction.co", string(hash), company.ID); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Get a token.
	body, _ := json.Marshal(map[string]string{"email": "john@construction.co", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}

	return server, loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func createRequest(t *testing.T, server *httptest.Server, token string, body map[string]any) model.MaterialRequest {
	t.Helper()
	req, _ := authRequest("POST", server.URL+"/api/requests", token, body)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, data)
	}
	var created model.MaterialRequest
	json.NewDecoder(resp.Body).Decode(&created)
	return created
}

func cementBody() map[string]any {
	return map[string]any{
		"material_name": "Portland Cement",
		"quantity":      500,
		"unit":          "bags",
		"priority":      "high",
		"notes":         "Needed for foundation work",
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "john@construction.co", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	router := NewRouter(database, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/requests")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRequestsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	created := createRequest(t, server, token, cementBody())
	if created.Status != model.StatusPending {
		t.Errorf("expected created request to be pending, got %q", created.Status)
	}
	if created.RequestedByName != "John Builder" {
		t.Errorf("expected creator name stamped, got %q", created.RequestedByName)
	}

	// List.
	req, _ := authRequest("GET", server.URL+"/api/requests", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list []model.MaterialRequest
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 1 {
		t.Fatalf("expected 1 request, got %d", len(list))
	}

	// Filter by a status with no matches.
	req, _ = authRequest("GET", server.URL+"/api/requests?status=fulfilled", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 0 {
		t.Errorf("expected no fulfilled requests, got %d", len(list))
	}

	// Partial update.
	req, _ = authRequest("PATCH", server.URL+"/api/requests/"+created.ID, token, map[string]any{
		"quantity": 750,
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", resp.StatusCode)
	}
	var updated model.MaterialRequest
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.MaterialName != "Portland Cement" {
		t.Error("expected material_name preserved on partial update")
	}
	if !updated.Quantity.Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected quantity 750, got %s", updated.Quantity)
	}

	// Delete, then delete again: at-most-once.
	req, _ = authRequest("DELETE", server.URL+"/api/requests/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("DELETE", server.URL+"/api/requests/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateValidationErrors(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/requests", token, map[string]any{
		"material_name": "a",
		"quantity":      0,
		"unit":          "tons",
		"priority":      "high",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body struct {
		Fields []model.FieldError `json:"fields"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if len(body.Fields) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(body.Fields), body.Fields)
	}
}

func TestTransitionFlow(t *testing.T) {
	server, token := setupTestServer(t)
	created := createRequest(t, server, token, cementBody())

	// No-op proposal is silently ignored.
	req, _ := authRequest("POST", server.URL+"/api/requests/"+created.ID+"/transitions", token, map[string]string{
		"new_status": "pending",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for no-op transition, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Propose pending -> approved.
	req, _ = authRequest("POST", server.URL+"/api/requests/"+created.ID+"/transitions", token, map[string]string{
		"new_status": "approved",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for proposal, got %d", resp.StatusCode)
	}
	var proposal struct {
		ID            string `json:"id"`
		CurrentStatus string `json:"current_status"`
		NewStatus     string `json:"new_status"`
	}
	json.NewDecoder(resp.Body).Decode(&proposal)
	resp.Body.Close()
	if proposal.CurrentStatus != "pending" || proposal.NewStatus != "approved" {
		t.Errorf("unexpected proposal: %+v", proposal)
	}

	// The request is unchanged until confirmation.
	req, _ = authRequest("GET", server.URL+"/api/requests/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var current model.MaterialRequest
	json.NewDecoder(resp.Body).Decode(&current)
	resp.Body.Close()
	if current.Status != model.StatusPending {
		t.Errorf("expected status unchanged before confirm, got %q", current.Status)
	}

	// Confirm applies the change and clears the artifact.
	req, _ = authRequest("POST", server.URL+"/api/transitions/"+proposal.ID+"/confirm", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on confirm, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/requests/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	json.NewDecoder(resp.Body).Decode(&current)
	resp.Body.Close()
	if current.Status != model.StatusApproved {
		t.Errorf("expected status approved after confirm, got %q", current.Status)
	}

	// A second confirm of the same proposal fails: the artifact is gone.
	req, _ = authRequest("POST", server.URL+"/api/transitions/"+proposal.ID+"/confirm", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for confirmed proposal, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestTransitionCancel(t *testing.T) {
	server, token := setupTestServer(t)
	created := createRequest(t, server, token, cementBody())

	req, _ := authRequest("POST", server.URL+"/api/requests/"+created.ID+"/transitions", token, map[string]string{
		"new_status": "rejected",
	})
	resp, _ := http.DefaultClient.Do(req)
	var proposal struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&proposal)
	resp.Body.Close()

	req, _ = authRequest("DELETE", server.URL+"/api/transitions/"+proposal.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on cancel, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The request is untouched.
	req, _ = authRequest("GET", server.URL+"/api/requests/"+created.ID, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var current model.MaterialRequest
	json.NewDecoder(resp.Body).Decode(&current)
	resp.Body.Close()
	if current.Status != model.StatusPending {
		t.Errorf("expected status unchanged after cancel, got %q", current.Status)
	}
}

func TestExportEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	// Empty set: notice instead of a file.
	req, _ := authRequest("GET", server.URL+"/api/requests/export", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for empty export, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	createRequest(t, server, token, cementBody())

	req, _ = authRequest("GET", server.URL+"/api/requests/export", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "material-requests-") {
		t.Errorf("expected download filename, got %q", cd)
	}

	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	body := string(data)
	if !strings.HasPrefix(body, `"Material Name","Quantity","Unit","Status","Priority","Project","Requested By","Date","Notes"`) {
		t.Errorf("unexpected CSV header: %q", body)
	}
	if !strings.Contains(body, `"Portland Cement","500","bags","pending","high"`) {
		t.Errorf("expected request row in CSV, got %q", body)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The revoked token no longer works.
	req, _ = authRequest("GET", server.URL+"/api/requests", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
