// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meditrainhq/meditrain/internal/cases"
	"github.com/meditrainhq/meditrain/internal/diagnosis"
	"github.com/meditrainhq/meditrain/internal/gate"
	"github.com/meditrainhq/meditrain/internal/llm"
	"github.com/meditrainhq/meditrain/internal/patient"
	"github.com/meditrainhq/meditrain/internal/report"
	"github.com/meditrainhq/meditrain/internal/session"
	"github.com/meditrainhq/meditrain/internal/symptom"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Chat(_ context.Context, _ []llm.Message) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) Name() string { return "stub" }

type passthroughLemmatizer struct{}

func (passthroughLemmatizer) Lemmas(_ context.Context, text string) ([]string, error) {
	return strings.Fields(strings.ToLower(text)), nil
}

func caseJSON(id, gender, diagnosis string, age int, symptoms ...string) string {
	quoted := make([]string, len(symptoms))
	for i, s := range symptoms {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`{
  "title": "Case %s",
  "patient_profile": {"name": "Pat", "age": %d, "gender": %q, "chief_complaint": "feeling unwell"},
  "symptoms": [%s],
  "additional_info": {"medical_history": [], "family_history": []},
  "correct_diagnosis": %q,
  "recommended_treatment": "rest and fluids",
  "intro_message": "Hello doctor, I'm not feeling my best."
}`, id, age, gender, strings.Join(quoted, ", "), diagnosis)
}

type testEnv struct {
	srv      *Server
	registry *diagnosis.Registry
	sessions *session.Store
	provider *stubProvider
}

func newTestEnv(t *testing.T, train bool) *testEnv {
	t.Helper()
	caseDir := t.TempDir()
	fixtures := map[string]string{
		"flu1.json": caseJSON("flu1", "male", "influenza", 30, "fever", "cough", "chills"),
		"flu2.json": caseJSON("flu2", "female", "influenza", 24, "fever", "cough", "chills"),
		"flu3.json": caseJSON("flu3", "male", "influenza", 39, "fever", "chills", "cough"),
		"mig1.json": caseJSON("mig1", "female", "migraine", 29, "headache", "nausea"),
		"mig2.json": caseJSON("mig2", "male", "migraine", 35, "headache", "nausea"),
		"mig3.json": caseJSON("mig3", "female", "migraine", 41, "headache", "nausea"),
	}
	for name, body := range fixtures {
		if err := os.WriteFile(filepath.Join(caseDir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := cases.NewStore(cases.Config{Dir: caseDir})
	if err != nil {
		t.Fatal(err)
	}
	extractor := symptom.NewExtractor(symptom.DefaultVocabulary(), passthroughLemmatizer{})
	registry := diagnosis.NewRegistry(diagnosis.Config{Dir: t.TempDir(), Trees: 50, Seed: 42, TestFraction: 0.2})
	if train {
		corpus, err := store.LoadAll()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := registry.Train(context.Background(), corpus); err != nil {
			t.Fatalf("Train: %v", err)
		}
	}
	provider := &stubProvider{reply: "canned reply"}
	patientSvc := patient.NewService(store, gate.New(gate.DefaultVocabulary()), extractor, registry, provider)
	sessions, err := session.Open(session.Config{Path: filepath.Join(t.TempDir(), "sessions.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sessions.Close() })
	srv, err := NewServer(store, extractor, registry, patientSvc, report.NewService(provider), sessions, provider)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &testEnv{srv: srv, registry: registry, sessions: sessions, provider: provider}
}

func postJSON(t *testing.T, srv *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func getPath(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, false)
	rr := getPath(t, env.srv, "/healthz")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rr.Code, rr.Body.String())
	}
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, true)
	rr := getPath(t, env.srv, "/v1/status")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp statusResponse
	decode(t, rr, &resp)
	if resp.Status != "ok" || !resp.ModelTrained || resp.Cases != 6 || resp.Provider != "stub" {
		t.Fatalf("status = %+v", resp)
	}
}

func TestListCases(t *testing.T) {
	env := newTestEnv(t, false)
	rr := getPath(t, env.srv, "/v1/cases")
	if rr.Code != http.StatusOK {
		t.Fatalf("cases = %d", rr.Code)
	}
	var resp []cases.Summary
	decode(t, rr, &resp)
	if len(resp) != 6 {
		t.Fatalf("got %d cases, want 6", len(resp))
	}
	if resp[0].ID != "flu1" || resp[0].Title != "Case flu1" {
		t.Fatalf("first case = %+v", resp[0])
	}
}

func TestExtractSymptoms(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/extract-symptoms", extractSymptomsRequest{Text: "I have a fever and a bad cough"})
	if rr.Code != http.StatusOK {
		t.Fatalf("extract-symptoms = %d %s", rr.Code, rr.Body.String())
	}
	var resp extractSymptomsResponse
	decode(t, rr, &resp)
	if len(resp.Symptoms) != 2 || resp.Symptoms[0] != "fever" || resp.Symptoms[1] != "cough" {
		t.Fatalf("symptoms = %v", resp.Symptoms)
	}

	rr = postJSON(t, env.srv, "/v1/extract-symptoms", extractSymptomsRequest{Text: "  "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty text = %d", rr.Code)
	}
}

func TestChatRecordsSession(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/chat", chatRequest{CaseID: "mig1", Message: "how long has the headache lasted?", Email: "doc@example.com"})
	if rr.Code != http.StatusOK {
		t.Fatalf("chat = %d %s", rr.Code, rr.Body.String())
	}
	var resp chatResponse
	decode(t, rr, &resp)
	if resp.Reply != "canned reply" {
		t.Fatalf("reply = %q", resp.Reply)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a session id for an email-bearing request")
	}
	msgs, err := env.sessions.Messages(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("transcript = %+v", msgs)
	}
}

func TestChatUnknownCase(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/chat", chatRequest{CaseID: "ghost", Message: "hello"})
	if rr.Code != http.StatusOK {
		t.Fatalf("chat = %d", rr.Code)
	}
	var resp chatResponse
	decode(t, rr, &resp)
	if resp.Reply != "Case not found." {
		t.Fatalf("reply = %q", resp.Reply)
	}
}

func TestChatRequiresCaseID(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/chat", chatRequest{Message: "hello"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("chat without case_id = %d", rr.Code)
	}
}

func TestChatDiagnose(t *testing.T) {
	env := newTestEnv(t, true)
	rr := postJSON(t, env.srv, "/v1/chat-diagnose", chatDiagnoseRequest{Message: "I have a fever with cough and chills", Age: 30, Gender: "male"})
	if rr.Code != http.StatusOK {
		t.Fatalf("chat-diagnose = %d %s", rr.Code, rr.Body.String())
	}
	var resp patient.DiagnoseResult
	decode(t, rr, &resp)
	if resp.Diagnosis != "influenza" {
		t.Fatalf("diagnosis = %q", resp.Diagnosis)
	}

	rr = postJSON(t, env.srv, "/v1/chat-diagnose", chatDiagnoseRequest{Message: "I have a fever", Age: 30, Gender: "other"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid gender = %d", rr.Code)
	}
}

func TestPredictUntrained(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/predict-diagnosis", predictRequest{Symptoms: []string{"fever"}, Age: 30, Gender: "male"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("untrained predict = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "train the model first") {
		t.Fatalf("missing remediation hint: %s", rr.Body.String())
	}
}

func TestPredictTrained(t *testing.T) {
	env := newTestEnv(t, true)
	rr := postJSON(t, env.srv, "/v1/predict-diagnosis", predictRequest{Symptoms: []string{"headache", "nausea"}, Age: 29, Gender: "female"})
	if rr.Code != http.StatusOK {
		t.Fatalf("predict = %d %s", rr.Code, rr.Body.String())
	}
	var resp predictResponse
	decode(t, rr, &resp)
	if resp.Diagnosis != "migraine" {
		t.Fatalf("diagnosis = %q", resp.Diagnosis)
	}
}

func TestTrainEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/train", struct{}{})
	if rr.Code != http.StatusOK {
		t.Fatalf("train = %d %s", rr.Code, rr.Body.String())
	}
	var resp diagnosis.Metrics
	decode(t, rr, &resp)
	if resp.TrainSize == 0 {
		t.Fatalf("metrics = %+v", resp)
	}
	if !env.registry.Trained() {
		t.Fatal("registry should be trained after /v1/train")
	}
}

func TestGradeDiagnosis(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/diagnosis", diagnosisRequest{CaseID: "mig1", Diagnosis: "migraine", Treatment: "rest and fluids"})
	if rr.Code != http.StatusOK {
		t.Fatalf("diagnosis = %d %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Report   string `json:"report"`
		Accuracy struct {
			Diagnosis float64 `json:"diagnosis"`
			Treatment float64 `json:"treatment"`
		} `json:"accuracy"`
	}
	decode(t, rr, &resp)
	if resp.Accuracy.Diagnosis != 100 || resp.Accuracy.Treatment != 100 {
		t.Fatalf("accuracy = %+v", resp.Accuracy)
	}
	if !strings.Contains(resp.Report, "100.00%") {
		t.Fatalf("report = %q", resp.Report)
	}

	rr = postJSON(t, env.srv, "/v1/diagnosis", diagnosisRequest{CaseID: "ghost", Diagnosis: "x", Treatment: "y"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown case = %d", rr.Code)
	}
}

func TestExtractEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.provider.reply = "Diagnosis: migraine\nTreatment: rest"
	rr := postJSON(t, env.srv, "/v1/extract", extractRequest{Conversation: "Doctor: sounds like a migraine, get some rest"})
	if rr.Code != http.StatusOK {
		t.Fatalf("extract = %d %s", rr.Code, rr.Body.String())
	}
	var resp extractResponse
	decode(t, rr, &resp)
	if resp.Diagnosis != "migraine" || resp.Treatment != "rest" {
		t.Fatalf("extract = %+v", resp)
	}
}

func TestNarrativeReportEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.provider.reply = "The patient presents with influenza."
	rr := postJSON(t, env.srv, "/v1/report", report.Input{Name: "Ravi", Age: 42, Gender: "male", Symptoms: []string{"fever"}, Diagnosis: "influenza"})
	if rr.Code != http.StatusOK {
		t.Fatalf("report = %d %s", rr.Code, rr.Body.String())
	}
	var resp narrativeReportResponse
	decode(t, rr, &resp)
	if resp.Report != "The patient presents with influenza." {
		t.Fatalf("report = %q", resp.Report)
	}

	rr = postJSON(t, env.srv, "/v1/report", report.Input{Diagnosis: "influenza"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing name = %d", rr.Code)
	}
}

func TestPDFReportEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	rr := postJSON(t, env.srv, "/v1/report/pdf", pdfReportRequest{
		SessionID:   "sess-1",
		PatientName: "Ravi",
		Symptoms:    []string{"fever", "cough"},
		Diagnosis:   "influenza",
		Treatment:   "rest",
		Remarks:     "recheck in a week",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("report/pdf = %d %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body is not a PDF")
	}
}

func TestSessionEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	rr := getPath(t, env.srv, "/v1/sessions")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("sessions without email = %d", rr.Code)
	}

	rr = postJSON(t, env.srv, "/v1/sessions", startSessionRequest{Email: "doc@example.com", CaseID: "mig1"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("start session = %d %s", rr.Code, rr.Body.String())
	}
	var sess session.Session
	decode(t, rr, &sess)
	if sess.ID == "" {
		t.Fatal("empty session id")
	}

	rr = postJSON(t, env.srv, "/v1/sessions", startSessionRequest{Email: "doc@example.com", CaseID: "ghost"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("start session for unknown case = %d", rr.Code)
	}

	rr = getPath(t, env.srv, "/v1/sessions?email=doc@example.com")
	if rr.Code != http.StatusOK {
		t.Fatalf("sessions = %d", rr.Code)
	}
	var list []session.Summary
	decode(t, rr, &list)
	if len(list) != 1 || list[0].CaseID != "mig1" {
		t.Fatalf("sessions = %+v", list)
	}
}

func TestLogsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	rr := getPath(t, env.srv, "/v1/logs")
	if rr.Code != http.StatusOK {
		t.Fatalf("logs = %d", rr.Code)
	}
	var resp struct {
		Entries []struct {
			Message string `json:"message"`
			Level   string `json:"level"`
		} `json:"entries"`
	}
	decode(t, rr, &resp)
	if len(resp.Entries) == 0 {
		t.Fatal("expected captured log entries")
	}
}
