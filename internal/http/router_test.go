package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aprende/internal/service"
	"aprende/internal/service/mocks"
	"aprende/internal/storage"

	"go.uber.org/mock/gomock"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type routerFixture struct {
	chat       *mocks.MockChatService
	vocabulary *mocks.MockVocabularyService
	router     http.Handler
}

func newRouterFixture(t *testing.T, staticDir string) *routerFixture {
	ctrl := gomock.NewController(t)
	f := &routerFixture{
		chat:       mocks.NewMockChatService(ctrl),
		vocabulary: mocks.NewMockVocabularyService(ctrl),
	}
	f.router = NewRouter(&Deps{
		ChatService:       f.chat,
		VocabularyService: f.vocabulary,
		DB:                okPinger{},
		WebSocket: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		AllowedOrigins: []string{"*"},
		StaticDir:      staticDir,
	})
	return f
}

func TestNewRouter(t *testing.T) {
	f := newRouterFixture(t, "")
	if f.router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	const id = "6f1c1a52-5c4e-4c61-9a53-2f5f7b0c8e11"

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		mockSetup  func(*routerFixture)
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/vocabulary",
			method: http.MethodGet,
			path:   "/api/vocabulary",
			mockSetup: func(f *routerFixture) {
				f.vocabulary.EXPECT().List(gomock.Any(), gomock.Any()).Return([]storage.VocabularyItem{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "POST /api/vocabulary",
			method: http.MethodPost,
			path:   "/api/vocabulary",
			body:   `{"spanish":"gato","chinese":"猫"}`,
			mockSetup: func(f *routerFixture) {
				f.vocabulary.EXPECT().Add(gomock.Any(), gomock.Any()).Return(&storage.VocabularyItem{ID: id}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "DELETE /api/vocabulary/{id}",
			method: http.MethodDelete,
			path:   "/api/vocabulary/" + id,
			mockSetup: func(f *routerFixture) {
				f.vocabulary.EXPECT().Delete(gomock.Any(), id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "POST /api/vocabulary/{id}/review",
			method: http.MethodPost,
			path:   "/api/vocabulary/" + id + "/review",
			mockSetup: func(f *routerFixture) {
				f.vocabulary.EXPECT().MarkReviewed(gomock.Any(), id).Return(&storage.VocabularyItem{ID: id}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/chat/messages",
			method: http.MethodGet,
			path:   "/api/chat/messages",
			mockSetup: func(f *routerFixture) {
				f.chat.EXPECT().ListMessages(gomock.Any(), false).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/chat/send without body",
			method:     http.MethodPost,
			path:       "/api/chat/send",
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusBadRequest, // Bad request due to missing body, but route exists
		},
		{
			name:       "POST /api/chat/send over the body limit",
			method:     http.MethodPost,
			path:       "/api/chat/send",
			body:       `{"content":"` + strings.Repeat("a", MaxBodyBytes) + `"}`,
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/vocabulary over the body limit",
			method:     http.MethodPost,
			path:       "/api/vocabulary",
			body:       `{"spanish":"` + strings.Repeat("a", MaxBodyBytes) + `","chinese":"猫"}`,
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:   "POST /api/chat/send",
			method: http.MethodPost,
			path:   "/api/chat/send",
			body:   `{"content":"hola"}`,
			mockSetup: func(f *routerFixture) {
				f.chat.EXPECT().SendMessage(gomock.Any(), service.ChatRequest{Content: "hola"}).Return(service.SendResult{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/chat/send method not allowed",
			method:     http.MethodGet,
			path:       "/api/chat/send",
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "GET /ws",
			method:     http.MethodGet,
			path:       "/ws",
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "unknown path without static dir",
			method:     http.MethodGet,
			path:       "/vocabulary",
			mockSetup:  func(*routerFixture) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t, "")
			tt.mockSetup(f)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			f.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	f := newRouterFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Router should apply CORS middleware")
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("Router should set X-Request-Id")
	}
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	f := newRouterFixture(t, "")
	f.chat.EXPECT().ListMessages(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, bool) ([]storage.ChatMessage, error) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Router panic status = %v, want %v", w.Code, http.StatusInternalServerError)
	}
}

func TestRouter_ServesStaticClient(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>aprende</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log('hola')"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newRouterFixture(t, dir)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "root", path: "/", wantStatus: http.StatusOK, wantBody: "aprende"},
		{name: "asset", path: "/assets/app.js", wantStatus: http.StatusOK, wantBody: "console.log"},
		{name: "client route falls back to index", path: "/vocabulary/list", wantStatus: http.StatusOK, wantBody: "aprende"},
		{name: "directory falls back to index", path: "/assets/", wantStatus: http.StatusOK, wantBody: "aprende"},
		{name: "unknown api path", path: "/api/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			f.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("GET %s status = %v, want %v", tt.path, w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("GET %s body = %q, want to contain %q", tt.path, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_WebSocketUpgradeOnAnyPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>aprende</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		staticDir  string
		path       string
		upgrade    bool
		wantStatus int
	}{
		{name: "root upgrade", path: "/", upgrade: true, wantStatus: http.StatusTeapot},
		{name: "root upgrade with static client", staticDir: dir, path: "/", upgrade: true, wantStatus: http.StatusTeapot},
		{name: "client route upgrade", staticDir: dir, path: "/chat", upgrade: true, wantStatus: http.StatusTeapot},
		{name: "ws path upgrade", path: "/ws", upgrade: true, wantStatus: http.StatusTeapot},
		{name: "api path upgrade is not a websocket", path: "/api/unknown", upgrade: true, wantStatus: http.StatusNotFound},
		{name: "plain root without static client", path: "/", wantStatus: http.StatusNotFound},
		{name: "plain root with static client", staticDir: dir, path: "/", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(t, tt.staticDir)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()

			f.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("GET %s (upgrade=%v) status = %v, want %v", tt.path, tt.upgrade, w.Code, tt.wantStatus)
			}
		})
	}
}
