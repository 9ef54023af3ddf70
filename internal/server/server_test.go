package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/ocrpad/internal/imaging"
	"github.com/ironsheep/ocrpad/internal/ocr"
)

// fakeBackend serves canned results and runs real preprocessing.
type fakeBackend struct {
	text  string
	err   error
	paths []string
}

func (f *fakeBackend) Run(ctx context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	return f.text, f.err
}

func (f *fakeBackend) Preprocess(ctx context.Context, path string) (*image.Gray, error) {
	return imaging.NewPipeline().Preprocess(ctx, path)
}

func (f *fakeBackend) Info(ctx context.Context) ocr.Info {
	return ocr.Info{Available: true, Backend: "fake", Version: "tesseract 5.3.0", Options: ocr.DefaultOptions()}
}

func newTestServer(b Backend) *Server {
	return New(b, strings.NewReader(""), &bytes.Buffer{}, nil)
}

// decodeResponses splits the server output into one response per line.
func decodeResponses(t *testing.T, out string) []MCPResponse {
	t.Helper()

	var resps []MCPResponse
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r MCPResponse
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		resps = append(resps, r)
	}
	return resps
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(&fakeBackend{})
	s.SetVersion("1.2.3")

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result := resp.Result.(map[string]interface{})
	if result["protocolVersion"] != ProtocolVersion {
		t.Errorf("protocolVersion = %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "ocrpad" || info["version"] != "1.2.3" {
		t.Errorf("serverInfo = %v", info)
	}
}

func TestHandleRequest_InitializedNotification(t *testing.T) {
	s := newTestServer(&fakeBackend{})
	if resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notifications must not be answered, got %+v", resp)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := newTestServer(&fakeBackend{})
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: "p", Method: "ping"})
	if resp == nil || resp.Error != nil || resp.ID != "p" {
		t.Errorf("unexpected ping response: %+v", resp)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := newTestServer(&fakeBackend{})
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 7, Method: "resources/list"})
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Fatalf("expected -32601, got %+v", resp.Error)
	}
	if !strings.Contains(resp.Error.Message, "resources/list") {
		t.Errorf("message should name the method: %s", resp.Error.Message)
	}
}

func TestRun_Stream(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"ocr_image","arguments":{"path":"/scan.png"}}}`,
	}, "\n")

	var out bytes.Buffer
	backend := &fakeBackend{text: "Merhaba\n"}
	s := New(backend, strings.NewReader(in), &out, nil)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	resps := decodeResponses(t, out.String())
	if len(resps) != 4 {
		t.Fatalf("got %d responses, want 4:\n%s", len(resps), out.String())
	}
	if resps[1].Error == nil || resps[1].Error.Code != -32700 {
		t.Errorf("malformed line should yield a parse error, got %+v", resps[1])
	}
	if resps[3].Error != nil {
		t.Errorf("ocr_image failed: %+v", resps[3].Error)
	}
	if len(backend.paths) != 1 || backend.paths[0] != "/scan.png" {
		t.Errorf("backend called with %v", backend.paths)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&fakeBackend{}, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &bytes.Buffer{}, nil)
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRun_CanceledWhileWaiting(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := New(&fakeBackend{}, in, &bytes.Buffer{}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel while the input was idle")
	}
}

func TestRun_ReadError(t *testing.T) {
	in, w := io.Pipe()
	w.CloseWithError(errors.New("broken pipe"))

	s := New(&fakeBackend{}, in, &bytes.Buffer{}, nil)
	err := s.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("expected the read error, got %v", err)
	}
}
