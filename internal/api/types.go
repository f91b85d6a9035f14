// File path: internal/api/types.go
package api

type statusResponse struct {
	Status       string `json:"status"`
	Provider     string `json:"provider"`
	ModelTrained bool   `json:"model_trained"`
	Cases        int    `json:"cases"`
}

type chatRequest struct {
	CaseID    string `json:"case_id"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Email     string `json:"email,omitempty"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id,omitempty"`
}

type chatDiagnoseRequest struct {
	Message string `json:"message"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
}

type predictRequest struct {
	Symptoms []string `json:"symptoms"`
	Age      int      `json:"age"`
	Gender   string   `json:"gender"`
}

type predictResponse struct {
	Diagnosis string `json:"diagnosis"`
}

type extractSymptomsRequest struct {
	Text string `json:"text"`
}

type extractSymptomsResponse struct {
	Symptoms []string `json:"symptoms"`
}

type diagnosisRequest struct {
	CaseID       string `json:"case_id"`
	Conversation string `json:"conversation,omitempty"`
	Diagnosis    string `json:"diagnosis"`
	Treatment    string `json:"treatment"`
}

type extractRequest struct {
	Conversation string `json:"conversation"`
}

type extractResponse struct {
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
}

type narrativeReportResponse struct {
	Report string `json:"report"`
}

type pdfReportRequest struct {
	SessionID   string   `json:"session_id"`
	PatientName string   `json:"patient_name"`
	Symptoms    []string `json:"symptoms"`
	Diagnosis   string   `json:"diagnosis"`
	Treatment   string   `json:"treatment"`
	Remarks     string   `json:"remarks"`
}

type startSessionRequest struct {
	Email  string `json:"email"`
	CaseID string `json:"case_id"`
}
