package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aprende/internal/service"
	"aprende/internal/service/mocks"
	"aprende/internal/storage"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockChatService := mocks.NewMockChatService(ctrl)
	handler := NewChatHandler(mockChatService, false)

	if handler == nil {
		t.Fatal("NewChatHandler() returned nil")
	}
	if handler.chatService != mockChatService {
		t.Error("NewChatHandler() chatService not set correctly")
	}
}

func TestChatHandler_Send(t *testing.T) {
	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		body          string
		showDetails   bool
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "successful send",
			body: `{"content":"hola kitty"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					SendMessage(gomock.Any(), service.ChatRequest{Content: "hola kitty"}).
					Return(service.SendResult{
						Message:  storage.ChatMessage{ID: "u1", Content: "hola kitty", Role: storage.RoleUser, Timestamp: sentAt},
						Response: storage.ChatMessage{ID: "a1", Content: "你好，猫咪", Role: storage.RoleAssistant, Timestamp: sentAt.Add(time.Second)},
						DetectedVocabulary: []service.DetectedWord{
							{Word: "kitty", Translation: "猫咪", UsageType: "口语"},
						},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Message            storage.ChatMessage `json:"message"`
					Response           storage.ChatMessage `json:"response"`
					DetectedVocabulary []map[string]string `json:"detectedVocabulary"`
				}
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Message.ID != "u1" || resp.Response.Content != "你好，猫咪" {
					t.Errorf("unexpected messages: %+v", resp)
				}
				if len(resp.DetectedVocabulary) != 1 || resp.DetectedVocabulary[0]["usage_type"] != "口语" {
					t.Errorf("unexpected detected vocabulary: %+v", resp.DetectedVocabulary)
				}
			},
		},
		{
			name: "nil detected vocabulary is sent as empty list",
			body: `{"content":"hola"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(service.SendResult{}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), `"detectedVocabulary":[]`) {
					t.Errorf("body = %s, want empty detectedVocabulary list", w.Body.String())
				}
			},
		},
		{
			name:       "invalid JSON body",
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorBody(t, w, "Invalid input")
			},
		},
		{
			name:       "missing content",
			body:       `{}`,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorBody(t, w, "Invalid input")
			},
		},
		{
			name:       "content not a string",
			body:       `{"content": 42}`,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorBody(t, w, "Invalid input")
			},
		},
		{
			name: "validation error",
			body: fmt.Sprintf(`{"content":%q}`, strings.Repeat("a", 1001)),
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					SendMessage(gomock.Any(), gomock.Any()).
					Return(service.SendResult{}, &service.ValidationError{Field: "content", Message: "is too long (max 1000 characters)"})
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorBody(t, w, "content is too long (max 1000 characters)")
			},
		},
		{
			name: "generation failure hides details in production",
			body: `{"content":"hola"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					SendMessage(gomock.Any(), gomock.Any()).
					Return(service.SendResult{}, fmt.Errorf("%w: %w", service.ErrGenerateResponse, errors.New("connection refused")))
			},
			wantStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := assertErrorBody(t, w, "Failed to generate chat response")
				if resp.Details != "" {
					t.Errorf("Details = %q, want empty outside development", resp.Details)
				}
			},
		},
		{
			name:        "generation failure shows details in development",
			body:        `{"content":"hola"}`,
			showDetails: true,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					SendMessage(gomock.Any(), gomock.Any()).
					Return(service.SendResult{}, fmt.Errorf("%w: %w", service.ErrGenerateResponse, errors.New("connection refused")))
			},
			wantStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := assertErrorBody(t, w, "Failed to generate chat response")
				if !strings.Contains(resp.Details, "connection refused") {
					t.Errorf("Details = %q, want error chain", resp.Details)
				}
			},
		},
		{
			name: "storage failure",
			body: `{"content":"hola"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					SendMessage(gomock.Any(), gomock.Any()).
					Return(service.SendResult{}, errors.New("disk full"))
			},
			wantStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assertErrorBody(t, w, "Failed to send message")
			},
		},
		{
			name: "external service error",
			body: `{"content":"hola"}`,
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					SendMessage(gomock.Any(), gomock.Any()).
					Return(service.SendResult{}, service.ErrExternalService)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService, tt.showDetails)

			req := httptest.NewRequest(http.MethodPost, "/api/chat/send", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Send(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Send() status = %v, want %v (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
				t.Errorf("Send() Content-Type = %q", got)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestChatHandler_Send_BodyTooLarge(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No service call is expected.
	handler := NewChatHandler(mocks.NewMockChatService(ctrl), false)

	body := `{"content":"` + strings.Repeat("a", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/send", strings.NewReader(body))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 16)

	handler.Send(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Send() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "content is too long (max 1000 characters)" {
		t.Errorf("Send() error = %q, want %q", resp.Error, "content is too long (max 1000 characters)")
	}
}

func TestChatHandler_Messages(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		mockSetup  func(*mocks.MockChatService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "plain list",
			url:  "/api/chat/messages",
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().ListMessages(gomock.Any(), false).Return([]storage.ChatMessage{{ID: "1", Content: "hola", Role: storage.RoleUser}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"content":"hola"`,
		},
		{
			name: "html format",
			url:  "/api/chat/messages?format=html",
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().ListMessages(gomock.Any(), true).Return([]storage.ChatMessage{{ID: "1", Content: "hola", HTML: "<p>hola</p>"}}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"html":"<p>hola</p>"`,
		},
		{
			name: "empty conversation",
			url:  "/api/chat/messages",
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().ListMessages(gomock.Any(), false).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "[]",
		},
		{
			name: "store failure",
			url:  "/api/chat/messages",
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().ListMessages(gomock.Any(), false).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to fetch messages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)

			handler := NewChatHandler(mockChatService, false)
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.Messages(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Messages() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("Messages() body = %s, want to contain %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, want string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != want {
		t.Errorf("error = %q, want %q", resp.Error, want)
	}
	return resp
}
